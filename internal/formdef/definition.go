// Package formdef loads form definitions by persistence identifier and reads
// the declared form identifier from them.
package formdef

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"formprefill/pkg/platform/sentinel"
)

// Definition is the subset of a form definition document this service reads.
type Definition struct {
	Identifier    string `yaml:"identifier"`
	Label         string `yaml:"label"`
	Type          string `yaml:"type"`
	PrototypeName string `yaml:"prototypeName"`
}

// ErrNoIdentifier is returned for definitions without a usable identifier.
var ErrNoIdentifier = fmt.Errorf("form definition has no identifier: %w", sentinel.ErrMalformed)

// Parse decodes a YAML form definition. Unknown keys are ignored.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse form definition: %w: %w", sentinel.ErrMalformed, err)
	}
	def.Identifier = strings.TrimSpace(def.Identifier)
	if def.Identifier == "" {
		return Definition{}, ErrNoIdentifier
	}
	return def, nil
}
