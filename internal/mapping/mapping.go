// Package mapping builds the translation table from user profile field
// names to form input names for one placed form.
//
// Layers are merged in increasing precedence, later layers overwrite keys of
// earlier ones:
//
//	defaults < author text < site generic[base id] < site specific[form id]
package mapping

import (
	"maps"
	"regexp"
	"strings"

	"formprefill/internal/siteconfig"
)

// FieldMapping maps an external (profile) field name to a form input name.
type FieldMapping map[string]string

// Layer names a mapping source.
type Layer string

const (
	LayerDefault      Layer = "default"
	LayerAuthor       Layer = "author"
	LayerSiteGeneric  Layer = "site_generic"
	LayerSiteSpecific Layer = "site_specific"
)

// DefaultMapping returns the built-in table. It always participates.
func DefaultMapping() FieldMapping {
	return FieldMapping{
		"title":     "title",
		"firstName": "first_name",
		"lastName":  "last_name",
		"name":      "name",
		"company":   "company",
		"address":   "address",
		"zip":       "zip",
		"city":      "city",
		"country":   "country",
		"email":     "email",
	}
}

// ParseAuthorMapping parses "externalField: inputField" lines. Lines are split
// on the first colon; a line without two non-empty sides is skipped.
func ParseAuthorMapping(text string) FieldMapping {
	out := FieldMapping{}
	for line := range strings.Lines(text) {
		external, input, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		external = strings.TrimSpace(external)
		input = strings.TrimSpace(input)
		if external == "" || input == "" {
			continue
		}
		out[external] = input
	}
	return out
}

var uidSuffix = regexp.MustCompile(`-\d+$`)

// BaseIdentifier strips a trailing "-<digits>" placement suffix.
func BaseIdentifier(formIdentifier string) string {
	return uidSuffix.ReplaceAllString(formIdentifier, "")
}

// Build merges all layers for formIdentifier. A nil site contributes nothing.
func Build(authorText, formIdentifier string, site *siteconfig.Site) FieldMapping {
	out := FieldMapping{}
	for _, layer := range Layers(authorText, formIdentifier, site) {
		maps.Copy(out, layer.Mapping)
	}
	return out
}

// LayerMapping is one non-empty layer in precedence order.
type LayerMapping struct {
	Layer   Layer
	Key     string
	Mapping FieldMapping
}

// Layers returns the layers Build merges, lowest precedence first. Empty site
// layers are omitted.
func Layers(authorText, formIdentifier string, site *siteconfig.Site) []LayerMapping {
	layers := []LayerMapping{
		{Layer: LayerDefault, Mapping: DefaultMapping()},
		{Layer: LayerAuthor, Mapping: ParseAuthorMapping(authorText)},
	}

	base := BaseIdentifier(formIdentifier)
	if generic := site.FormMapping(base); len(generic) > 0 {
		layers = append(layers, LayerMapping{Layer: LayerSiteGeneric, Key: base, Mapping: FieldMapping(maps.Clone(generic))})
	}
	if specific := site.FormMapping(formIdentifier); len(specific) > 0 {
		layers = append(layers, LayerMapping{Layer: LayerSiteSpecific, Key: formIdentifier, Mapping: FieldMapping(maps.Clone(specific))})
	}
	return layers
}

// Explain reports, per external field, the layer its final value came from.
func Explain(authorText, formIdentifier string, site *siteconfig.Site) map[string]Layer {
	out := map[string]Layer{}
	for _, layer := range Layers(authorText, formIdentifier, site) {
		for k := range layer.Mapping {
			out[k] = layer.Layer
		}
	}
	return out
}
