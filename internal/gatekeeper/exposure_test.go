package gatekeeper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formprefill/internal/extconf"
	"formprefill/internal/profile"
	"formprefill/internal/siteconfig"
)

func fullProfile() profile.Profile {
	p := profile.Profile{"secret": "s3cr3t", "password": "$2y$hash"}
	for _, f := range FallbackFields {
		p[f] = "value of " + f
	}
	return p
}

func TestExposedFieldsFallbackHidesSecret(t *testing.T) {
	p := fullProfile()

	got := ExposedFields(p, nil, extconf.Result{Err: extconf.ErrUnavailable})

	assert.Len(t, got, 14)
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "password")
	for _, f := range FallbackFields {
		assert.Equal(t, p[f], got[f])
	}
}

func TestExposedFieldsNeverLeaks(t *testing.T) {
	tests := []struct {
		name     string
		site     *siteconfig.Site
		defaults extconf.Result
	}{
		{name: "site list", site: siteWith(siteconfig.NewFieldList("email", "unknown"))},
		{name: "empty site list", site: siteWith(siteconfig.NewFieldList())},
		{name: "extension list", defaults: extconf.Result{Config: extconf.Config{AllowedFields: "zip,www"}}},
		{name: "fallback", defaults: extconf.Result{Err: errors.New("down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullProfile()
			allowed := ResolveAllowList(tt.site, tt.defaults)
			got := ExposedFields(p, tt.site, tt.defaults)

			for k, v := range got {
				assert.True(t, allowed.Contains(k), "field %q is not allowed", k)
				assert.Equal(t, p[k], v)
			}
			for _, f := range allowed {
				if _, ok := p[f]; ok {
					assert.Contains(t, got, f)
				}
			}
		})
	}
}

func TestExposedFieldsEmptySiteList(t *testing.T) {
	got := ExposedFields(fullProfile(), siteWith(siteconfig.NewFieldList()), extconf.Result{})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestExposedFieldsIdempotent(t *testing.T) {
	p := fullProfile()
	site := siteWith(siteconfig.NewFieldList("email", "company"))
	first := ExposedFields(p, site, extconf.Result{})
	second := ExposedFields(p, site, extconf.Result{})
	assert.Equal(t, first, second)
	assert.Equal(t, fullProfile(), p, "profile must not be modified")
}

type countingProvider struct {
	calls int
	cfg   extconf.Config
	err   error
}

func (c *countingProvider) Load(context.Context) (extconf.Config, error) {
	c.calls++
	return c.cfg, c.err
}

func TestGatekeeperExpose(t *testing.T) {
	ctx := context.Background()

	t.Run("site list skips extension read", func(t *testing.T) {
		provider := &countingProvider{cfg: extconf.Config{AllowedFields: "zip"}}
		g := New(provider, nil)

		got, res := g.Expose(ctx, fullProfile(), siteWith(siteconfig.NewFieldList("email")))
		assert.Equal(t, map[string]string{"email": "value of email"}, got)
		assert.Equal(t, SourceSite, res.Source)
		assert.Zero(t, provider.calls)
	})

	t.Run("extension list", func(t *testing.T) {
		provider := &countingProvider{cfg: extconf.Config{AllowedFields: "zip"}}
		g := New(provider, nil)

		got, res := g.Expose(ctx, fullProfile(), nil)
		assert.Equal(t, map[string]string{"zip": "value of zip"}, got)
		assert.Equal(t, SourceExtension, res.Source)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("unavailable extension degrades", func(t *testing.T) {
		provider := &countingProvider{err: extconf.ErrUnavailable}
		g := New(provider, nil)

		got, res := g.Expose(ctx, fullProfile(), nil)
		require.Len(t, got, 14)
		assert.Equal(t, SourceFallback, res.Source)
	})

	t.Run("no provider", func(t *testing.T) {
		got, res := New(nil, nil).Expose(ctx, fullProfile(), nil)
		assert.Len(t, got, 14)
		assert.Equal(t, SourceFallback, res.Source)
	})
}
