package maps

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed world.schema.json
var worldSchemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func worldSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("world.schema.json", worldSchemaJSON)
	})
	return schema, schemaErr
}

// ValidateDocument checks raw world JSON against the embedded schema.
func ValidateDocument(data []byte) error {
	s, err := worldSchema()
	if err != nil {
		return fmt.Errorf("compile world schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse world JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("world schema: %w", err)
	}
	return nil
}
