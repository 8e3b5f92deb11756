package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/garnizeh/oppboard/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.RootCmd(version)
	root.SetContext(ctx)
	code := cli.Execute(root)
	stop()
	os.Exit(code)
}
