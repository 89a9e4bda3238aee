package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// corpusSchema describes the question corpus file. Options carry their
// text under "answer"; older files use "text".
var corpusSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"question", "answers"},
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"answers": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"correct"},
					"anyOf": []any{
						map[string]any{"required": []any{"answer"}},
						map[string]any{"required": []any{"text"}},
					},
					"properties": map[string]any{
						"answer":  map[string]any{"type": "string"},
						"text":    map[string]any{"type": "string"},
						"correct": map[string]any{"type": "boolean"},
					},
				},
			},
		},
	},
}

// statsSchema describes the stats file.
var statsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"question_id", "history"},
		"properties": map[string]any{
			"question_id": map[string]any{"type": "integer", "minimum": 0},
			"history": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"date", "duration"},
					"properties": map[string]any{
						"date":             map[string]any{"type": "integer"},
						"duration":         map[string]any{"type": "number", "minimum": 0},
						"rate_numerator":   map[string]any{"type": "integer", "minimum": 0},
						"rate_denominator": map[string]any{"type": "integer", "minimum": 1},
					},
				},
			},
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateDocument checks raw JSON against the named schema.
func validateDocument(name string, def map[string]any, raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	compiled, err := compiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values, not Go literals.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	schemaCache.Store(name, compiled)
	return compiled, nil
}
