package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "formprefill/pkg/domain"
	dErrors "formprefill/pkg/domain-errors"
)

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Settings
		wantErr bool
	}{
		{name: "empty", raw: "", want: Settings{}},
		{name: "null", raw: "null", want: Settings{}},
		{
			name: "all keys",
			raw:  `{"fieldMapping":"email: mail","formIdentifier":"contact-42","persistenceIdentifier":"1:/forms/contact.form.yaml"}`,
			want: Settings{
				FieldMapping:          "email: mail",
				FormIdentifier:        "contact-42",
				PersistenceIdentifier: "1:/forms/contact.form.yaml",
			},
		},
		{name: "unknown keys ignored", raw: `{"layout":"wide","fieldMapping":"a: b"}`, want: Settings{FieldMapping: "a: b"}},
		{name: "not an object", raw: `["a"]`, wantErr: true},
		{name: "broken", raw: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSettings([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeSettingsRoundTrip(t *testing.T) {
	in := Settings{FieldMapping: "email: mail\nzip: plz"}
	raw, err := EncodeSettings(in)
	require.NoError(t, err)

	out, err := Element{RawSettings: raw}.DecodeSettings()
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.JSONEq(t, `{"fieldMapping":"email: mail\nzip: plz"}`, string(raw))
}

func TestFormQueryMatches(t *testing.T) {
	base := Element{UID: 1, PID: 10, LanguageID: 0, ContentType: id.ContentTypeForm, RawSettings: json.RawMessage(`{}`)}

	tests := []struct {
		name  string
		query FormQuery
		edit  func(*Element)
		want  bool
	}{
		{name: "form on page", query: FormQuery{PageID: 10}, want: true},
		{name: "form content type", query: FormQuery{PageID: 10}, edit: func(e *Element) { e.ContentType = id.ContentTypeFormContent }, want: true},
		{name: "other page", query: FormQuery{PageID: 11}, want: false},
		{name: "hidden", query: FormQuery{PageID: 10}, edit: func(e *Element) { e.Hidden = true }, want: false},
		{name: "deleted", query: FormQuery{PageID: 10}, edit: func(e *Element) { e.Deleted = true }, want: false},
		{name: "text element", query: FormQuery{PageID: 10}, edit: func(e *Element) { e.ContentType = "text" }, want: false},
		{name: "prefill element", query: FormQuery{PageID: 10}, edit: func(e *Element) { e.ContentType = id.ContentTypePrefill }, want: false},
		{name: "other language", query: FormQuery{PageID: 10, LanguageID: 1}, want: false},
		{name: "all languages", query: FormQuery{PageID: 10, LanguageID: 1, AllLanguages: true}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			if tt.edit != nil {
				tt.edit(&e)
			}
			assert.Equal(t, tt.want, tt.query.Matches(e))
		})
	}
}
