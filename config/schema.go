package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

var schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/dhamidi/jnicall/schemas/config/v1",
  "title": "jnicall configuration",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "package": {
      "type": "string",
      "pattern": "^[a-z_][a-z0-9_]*(\\.[a-z_][a-z0-9_]*)*$"
    },
    "bridge": {
      "type": "string",
      "pattern": "^[A-Za-z0-9_.~-]+(/[A-Za-z0-9_.~-]+)*$"
    },
    "bridge_name": { "type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$" },
    "marker": {
      "type": "string",
      "pattern": "^[A-Za-z_][A-Za-z0-9_]*\\.[A-Za-z_][A-Za-z0-9_]*$"
    },
    "build_tag": { "type": "string", "pattern": "^[A-Za-z0-9_.]+$" },
    "suffix": { "type": "string", "pattern": "^[A-Za-z0-9_.-]*\\.go$" }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to decode schema JSON: %v", err))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("config.json", schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add schema resource: %v", err))
	}
	var err error
	compiledSchema, err = c.Compile("config.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema: %v", err))
	}
}

// ValidateSchema validates raw YAML against the configuration schema.
func ValidateSchema(yamlData []byte) error {
	var raw any
	if err := yaml.Unmarshal(yamlData, &raw); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	// An empty file is an empty configuration.
	if raw == nil {
		raw = map[string]any{}
	}
	if err := compiledSchema.Validate(convertYAMLToJSON(raw)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func convertYAMLToJSON(v any) any {
	switch v := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = convertYAMLToJSON(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = convertYAMLToJSON(val)
		}
		return result
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return v
	}
}
