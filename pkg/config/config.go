// Package config loads YAML documents with environment variable expansion
// and optional validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by documents that can check themselves.
type Validator interface {
	Validate() error
}

// Load reads filename and decodes it into target.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return LoadBytes(filename, data, target)
}

// LoadBytes decodes data into target after expanding ${VAR} references.
// name is used in error messages only. When target implements Validator it
// is validated after decoding.
func LoadBytes[T any](name string, data []byte, target *T) error {
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("%s: validation failed: %w", name, err)
		}
	}

	return nil
}
