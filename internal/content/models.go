// Package content reads page content elements: the form-bearing elements the
// identity resolver counts, and the prefill element that carries author
// settings.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	id "formprefill/pkg/domain"
	dErrors "formprefill/pkg/domain-errors"
)

// Element is one content element on a page.
type Element struct {
	UID         id.ContentID
	PID         id.PageID
	LanguageID  id.LanguageID
	ContentType id.ContentType
	Hidden      bool
	Deleted     bool
	// RawSettings is the author settings blob, a JSON object.
	RawSettings json.RawMessage
}

// Visible reports whether the element is rendered to visitors.
func (e Element) Visible() bool {
	return !e.Hidden && !e.Deleted
}

// Settings are the author-entered options of an element.
type Settings struct {
	// FieldMapping is one "externalField: inputField" pair per line.
	FieldMapping string `json:"fieldMapping,omitempty"`
	// FormIdentifier, when set, bypasses form discovery.
	FormIdentifier string `json:"formIdentifier,omitempty"`
	// PersistenceIdentifier locates the form definition of a form element.
	PersistenceIdentifier string `json:"persistenceIdentifier,omitempty"`
}

// DecodeSettings parses the element's settings blob. An empty blob is
// treated as no settings.
func (e Element) DecodeSettings() (Settings, error) {
	return ParseSettings(e.RawSettings)
}

// ParseSettings parses a settings blob.
func ParseSettings(raw []byte) (Settings, error) {
	var s Settings
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return s, nil
	}
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Settings{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid element settings")
	}
	return s, nil
}

// EncodeSettings is the inverse of ParseSettings.
func EncodeSettings(s Settings) (json.RawMessage, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return raw, nil
}

// FormQuery selects the visible form-bearing elements of a page.
type FormQuery struct {
	PageID     id.PageID
	LanguageID id.LanguageID
	// AllLanguages disables the language filter.
	AllLanguages bool
}

// Matches reports whether e is a visible form element selected by q.
func (q FormQuery) Matches(e Element) bool {
	if e.PID != q.PageID || !e.Visible() || !e.ContentType.IsForm() {
		return false
	}
	return q.AllLanguages || e.LanguageID == q.LanguageID
}
