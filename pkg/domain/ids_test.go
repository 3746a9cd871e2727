package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "formprefill/pkg/domain-errors"
)

// TestParseUserID_Invariants validates the parsing invariant:
// "user ids are positive integers; anonymous (zero) ids never parse"
func TestParseUserID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-number")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects anonymous id", func(t *testing.T) {
		_, err := ParseUserID("0")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts positive id", func(t *testing.T) {
		id, err := ParseUserID("42")
		require.NoError(t, err)
		assert.Equal(t, UserID(42), id)
		assert.True(t, id.IsValid())
	})
}

// TestParseID_SecurityInvariants validates parsing rules at trust boundaries.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "1; DROP TABLE fe_users;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "12\x0034", true},
		{"Oversized input", strings.Repeat("9", 1000), true},
		{"Leading whitespace", " 12", true},
		{"Trailing whitespace", "12 ", true},
		{"Negative", "-5", true},
		{"Plus sign", "+5", false},
		{"Valid", "7", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContentID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseLanguageID(t *testing.T) {
	id, err := ParseLanguageID("0")
	require.NoError(t, err)
	assert.Equal(t, LanguageID(0), id)

	_, err = ParseLanguageID("-1")
	require.Error(t, err)
}

func TestContentTypeIsForm(t *testing.T) {
	assert.True(t, ContentTypeForm.IsForm())
	assert.True(t, ContentTypeFormContent.IsForm())
	assert.False(t, ContentTypePrefill.IsForm())
	assert.False(t, ContentType("text").IsForm())

	_, ok := ParseContentType("")
	assert.False(t, ok)
}
