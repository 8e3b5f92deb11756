package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	signupSchema      = mustLoadSchema("schemas/signup.json")
	opportunitySchema = mustLoadSchema("schemas/opportunity.json")
	profileSchema     = mustLoadSchema("schemas/profile.json")
)

func mustLoadSchema(name string) *jsonschema.Schema {
	b, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("read schema %s: %v", name, err))
	}
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		panic(fmt.Sprintf("parse schema %s: %v", name, err))
	}
	return rs
}

// validatePayload checks body against rs and returns a single readable error
// listing every violation.
func validatePayload(ctx context.Context, rs *jsonschema.Schema, body []byte) error {
	errs, err := rs.ValidateBytes(ctx, body)
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		path := strings.TrimPrefix(e.PropertyPath, "/")
		if path == "" {
			msgs = append(msgs, e.Message)
			continue
		}
		msgs = append(msgs, path+": "+e.Message)
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
