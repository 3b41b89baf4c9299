package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is returned when a configuration file does not match
// the schema.
var ErrSchemaViolation = errors.New("configuration does not match schema")

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON Schema configuration files are checked against.
func Schema() []byte {
	return schemaJSON
}

// Violation is one schema error.
type Violation struct {
	Field       string `json:"field" yaml:"field"`
	Description string `json:"description" yaml:"description"`
}

// ValidateFile checks a YAML configuration file against the schema. It
// returns the violations found; the error wraps ErrSchemaViolation when
// there are any.
func ValidateFile(path string) ([]Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Validate(data)
}

// Validate checks YAML configuration content against the schema.
func Validate(data []byte) ([]Violation, error) {
	doc := map[string]any{}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, Violation{Field: verr.Field(), Description: verr.Description()})
	}

	return violations, fmt.Errorf("%w: %d error(s)", ErrSchemaViolation, len(violations))
}
