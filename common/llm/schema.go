package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// GenerateSchema reflects the JSON schema the model output must satisfy.
func GenerateSchema[T any]() *jsonschema.Schema {
	var v T
	return reflector.Reflect(v)
}

// SchemaJSON renders the schema of T for embedding in a prompt.
func SchemaJSON[T any]() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema[T](), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(data), nil
}
