package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formprefill/internal/extconf"
	"formprefill/internal/gatekeeper"
	"formprefill/internal/siteconfig"
	adminmw "formprefill/pkg/platform/middleware/admin"
	"formprefill/pkg/platform/sentinel"
	"formprefill/pkg/testutil"
)

const testAdminToken = "admin-secret"

// memorySites is both the site store and the source the registry reloads from.
type memorySites struct {
	mu    sync.Mutex
	sites map[string]*siteconfig.Site
}

func (m *memorySites) Load(context.Context) ([]*siteconfig.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*siteconfig.Site
	for _, key := range slices.Sorted(maps.Keys(m.sites)) {
		out = append(out, m.sites[key])
	}
	return out, nil
}

func (m *memorySites) Save(_ context.Context, site *siteconfig.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sites[site.Identifier] = site
	return nil
}

func (m *memorySites) Delete(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sites[identifier]; !ok {
		return fmt.Errorf("site %s: %w", identifier, sentinel.ErrNotFound)
	}
	delete(m.sites, identifier)
	return nil
}

func newAdminRouter(t *testing.T, store SiteStore, src siteconfig.Source) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := siteconfig.NewFinder(src)
	require.NoError(t, registry.Reload(context.Background()))
	h := NewAdmin(store, registry, gatekeeper.New(extconf.Static{AllowedFields: "email, city"}, logger), testAdminToken, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func adminRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := testutil.NewRequestWithBody(t, method, path, "application/yaml", body)
	req.Header.Set(adminmw.HeaderAdminToken, testAdminToken)
	return req
}

func TestAdminRequiresToken(t *testing.T) {
	sites := &memorySites{sites: map[string]*siteconfig.Site{}}
	r := newAdminRouter(t, sites, sites)

	rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/sites"))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminSiteLifecycle(t *testing.T) {
	sites := &memorySites{sites: map[string]*siteconfig.Site{}}
	r := newAdminRouter(t, sites, sites)

	doc := "identifier: main\nbase: www.example.org\nformprefill:\n  allowedFields: [email]\n"
	rr := testutil.DoRequest(r, adminRequest(t, http.MethodPut, "/admin/sites/main", doc))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodGet, "/admin/sites", ""))
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, []string{"main"}, testutil.UnmarshalResponse[sitesResponse](t, rr).Sites)

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodGet, "/admin/sites/main", ""))
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "www.example.org")

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodGet, "/admin/sites/main/allowlist", ""))
	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[allowListResponse](t, rr)
	assert.Equal(t, "site", got.Source)
	assert.Equal(t, []string{"email"}, got.Fields)

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodDelete, "/admin/sites/main", ""))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodGet, "/admin/sites/main", ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminAllowListFallsBackToExtension(t *testing.T) {
	sites := &memorySites{sites: map[string]*siteconfig.Site{"main": {Identifier: "main"}}}
	r := newAdminRouter(t, sites, sites)

	rr := testutil.DoRequest(r, adminRequest(t, http.MethodGet, "/admin/sites/main/allowlist", ""))

	testutil.AssertStatusOK(t, rr)
	got := testutil.UnmarshalResponse[allowListResponse](t, rr)
	assert.Equal(t, "extension", got.Source)
	assert.Equal(t, []string{"email", "city"}, got.Fields)
}

func TestAdminPutRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "not yaml", path: "/admin/sites/main", body: "identifier: [main"},
		{name: "identifier mismatch", path: "/admin/sites/main", body: "identifier: shop\n"},
		{name: "empty field name", path: "/admin/sites/main", body: "identifier: main\nformprefill:\n  allowedFields: ['']\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sites := &memorySites{sites: map[string]*siteconfig.Site{}}
			r := newAdminRouter(t, sites, sites)

			rr := testutil.DoRequest(r, adminRequest(t, http.MethodPut, tt.path, tt.body))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, sites.sites)
		})
	}
}

func TestAdminReadOnlySites(t *testing.T) {
	sites := &memorySites{sites: map[string]*siteconfig.Site{"main": {Identifier: "main"}}}
	r := newAdminRouter(t, nil, sites)

	rr := testutil.DoRequest(r, adminRequest(t, http.MethodPut, "/admin/sites/main", "identifier: main\n"))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodDelete, "/admin/sites/main", ""))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = testutil.DoRequest(r, adminRequest(t, http.MethodPost, "/admin/sites/reload", ""))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAdminDeleteUnknownSite(t *testing.T) {
	sites := &memorySites{sites: map[string]*siteconfig.Site{}}
	r := newAdminRouter(t, sites, sites)

	rr := testutil.DoRequest(r, adminRequest(t, http.MethodDelete, "/admin/sites/ghost", ""))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
