package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildAnalysisJSONSchema returns the JSON-Schema (draft 2020-12
// subset) an analysis response must satisfy once the required keys are
// defaulted. Keyword keys are model-chosen, so excerpt values are
// constrained through additionalProperties: a single excerpt string,
// several excerpts, or null for keywords the model decided to mention
// as absent.
func BuildAnalysisJSONSchema() map[string]any {
	excerpt := map[string]any{
		"anyOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			map[string]any{"type": "null"},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"company": map[string]any{"type": "string"},
			"date":    map[string]any{"type": "string"},
			"resumo":  map[string]any{"type": "string"},
			"keywords": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"error":  map[string]any{"type": "string"},
			"tokens": map[string]any{"type": "integer"},
		},
		"required":             []string{"company", "date", "resumo"},
		"additionalProperties": excerpt,
	}
}

// ValidateAgainstSchema validates data against schemaMap.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
