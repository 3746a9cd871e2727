package siteconfig

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	dErrors "formprefill/pkg/domain-errors"
)

const (
	ScopeRequest = "request"
	ScopeAll     = "all"
)

// Parse decodes and validates a site document.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&site); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "site configuration is not valid YAML")
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Marshal encodes a site document.
func Marshal(site *Site) ([]byte, error) {
	return yaml.Marshal(site)
}

// Validate enforces the invariants the core relies on.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Identifier) == "" {
		return dErrors.New(dErrors.CodeValidation, "site identifier is required")
	}
	for _, f := range s.Prefill.AllowedFields.Fields {
		if strings.TrimSpace(f) == "" {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("site %s: allowedFields contains an empty field name", s.Identifier))
		}
	}
	for key, m := range s.Prefill.FormMappings {
		if strings.TrimSpace(key) == "" {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("site %s: formMappings contains an empty form identifier", s.Identifier))
		}
		for external, input := range m {
			if strings.TrimSpace(external) == "" || strings.TrimSpace(input) == "" {
				return dErrors.New(dErrors.CodeValidation,
					fmt.Sprintf("site %s: formMappings[%s] contains an empty field name", s.Identifier, key))
			}
		}
	}
	switch s.Prefill.FormLanguageScope {
	case "", ScopeRequest, ScopeAll:
	default:
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("site %s: formLanguageScope must be %q or %q", s.Identifier, ScopeRequest, ScopeAll))
	}
	return nil
}
