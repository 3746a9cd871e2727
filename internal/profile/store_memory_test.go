package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "formprefill/pkg/domain"
	"formprefill/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Save(ctx, id.UserID(1), Profile{"email": "a@example.org"}))

	p, err := store.FindByID(ctx, id.UserID(1))
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", p["email"])

	p["email"] = "mutated"
	again, err := store.FindByID(ctx, id.UserID(1))
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", again["email"], "callers must not mutate stored profiles")

	_, err = store.FindByID(ctx, id.UserID(2))
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestColumnString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
		ok   bool
	}{
		{name: "nil", in: nil, ok: false},
		{name: "bytes", in: []byte("Berlin"), want: "Berlin", ok: true},
		{name: "int", in: int64(10115), want: "10115", ok: true},
		{name: "bool", in: true, want: "true", ok: true},
		{name: "unsupported", in: struct{}{}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := columnString(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
