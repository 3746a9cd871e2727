// Package siteconfig holds the administrator-controlled, per-site prefill
// configuration. Documents are YAML and are validated once when loaded; the
// rest of the service only sees the typed Site value.
package siteconfig

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Site is one configured site.
type Site struct {
	Identifier string  `yaml:"identifier"`
	Base       string  `yaml:"base"`
	Prefill    Prefill `yaml:"formprefill"`
}

// Prefill is the site's prefill section.
type Prefill struct {
	// AllowedFields is the explicit allow-list. When set it wins over every
	// other source, even if empty.
	AllowedFields FieldList `yaml:"allowedFields,omitempty"`

	// FormMappings is keyed by base identifier (generic) or full form
	// identifier (placement specific).
	FormMappings map[string]map[string]string `yaml:"formMappings,omitempty"`

	// FormLanguageScope is "request" (default) or "all".
	FormLanguageScope string `yaml:"formLanguageScope,omitempty"`
}

// FieldList is an optional list of profile field names. Set distinguishes an
// absent key from an explicitly empty list.
type FieldList struct {
	Fields []string
	Set    bool
}

// NewFieldList returns a set list.
func NewFieldList(fields ...string) FieldList {
	if fields == nil {
		fields = []string{}
	}
	return FieldList{Fields: fields, Set: true}
}

func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*l = FieldList{}
		return nil
	}
	var fields []string
	if err := node.Decode(&fields); err != nil {
		return err
	}
	*l = NewFieldList(fields...)
	return nil
}

// IsZero lets omitempty drop an unset list.
func (l FieldList) IsZero() bool {
	return !l.Set
}

func (l FieldList) MarshalYAML() (any, error) {
	if !l.Set {
		return nil, nil
	}
	return l.Fields, nil
}

// AllowedFields returns the explicit allow-list and whether one is configured.
// A nil site has none.
func (s *Site) AllowedFields() ([]string, bool) {
	if s == nil || !s.Prefill.AllowedFields.Set {
		return nil, false
	}
	return s.Prefill.AllowedFields.Fields, true
}

// FormMapping returns the configured mapping for key, if any.
func (s *Site) FormMapping(key string) map[string]string {
	if s == nil {
		return nil
	}
	return s.Prefill.FormMappings[key]
}

// LanguageScope returns the configured scope, empty when unset.
func (s *Site) LanguageScope() string {
	if s == nil {
		return ""
	}
	return s.Prefill.FormLanguageScope
}

// Host returns the lower-cased host name of the site base.
func (s *Site) Host() string {
	if s == nil {
		return ""
	}
	return normalizeHost(s.Base)
}

func normalizeHost(base string) string {
	h := strings.ToLower(strings.TrimSpace(base))
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}
	if strings.HasPrefix(h, "[") {
		if i := strings.Index(h, "]"); i >= 0 {
			return h[1:i]
		}
	}
	if i := strings.LastIndex(h, ":"); i >= 0 && !strings.Contains(h[:i], ":") {
		h = h[:i]
	}
	return h
}
