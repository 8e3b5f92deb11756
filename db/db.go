package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed postgres/*.sql
var PostgresSchema embed.FS
