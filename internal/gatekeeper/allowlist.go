// Package gatekeeper decides which profile fields may leave the server.
//
// The allow-list is resolved from three sources, first match wins and the
// sources are never merged:
//
//  1. the site's explicit list, when present, even if empty
//  2. the extension-wide default list, when non-empty after trimming
//  3. FallbackFields
package gatekeeper

import (
	"slices"

	"formprefill/internal/extconf"
	"formprefill/internal/siteconfig"
	pstrings "formprefill/pkg/platform/strings"
)

// AllowList is an ordered list of profile field names that may be exposed.
type AllowList []string

// Contains reports whether field is allowed.
func (l AllowList) Contains(field string) bool {
	return slices.Contains(l, field)
}

// Source names where an allow-list came from.
type Source string

const (
	SourceSite      Source = "site"
	SourceExtension Source = "extension"
	SourceFallback  Source = "fallback"
)

// FallbackFields is used when neither the site nor the extension configure
// a list.
var FallbackFields = AllowList{
	"name",
	"title",
	"first_name",
	"middle_name",
	"last_name",
	"company",
	"address",
	"zip",
	"city",
	"country",
	"telephone",
	"fax",
	"email",
	"www",
}

// Resolution is a resolved allow-list and its source.
type Resolution struct {
	Fields AllowList
	Source Source
}

// ResolveAllowList applies the source precedence. A failed extension read
// contributes nothing.
func ResolveAllowList(site *siteconfig.Site, defaults extconf.Result) AllowList {
	return Resolve(site, defaults).Fields
}

// Resolve is ResolveAllowList that also reports the winning source.
func Resolve(site *siteconfig.Site, defaults extconf.Result) Resolution {
	if fields, ok := site.AllowedFields(); ok {
		return Resolution{Fields: siteFields(fields), Source: SourceSite}
	}
	if fields := defaults.Fields(); len(fields) > 0 {
		return Resolution{Fields: AllowList(fields), Source: SourceExtension}
	}
	return Resolution{Fields: slices.Clone(FallbackFields), Source: SourceFallback}
}

// siteFields keeps an explicitly empty list non-nil.
func siteFields(fields []string) AllowList {
	cleaned := pstrings.DedupeAndTrim(fields)
	if cleaned == nil {
		return AllowList{}
	}
	return AllowList(cleaned)
}
