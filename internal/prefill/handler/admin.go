package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formprefill/internal/gatekeeper"
	"formprefill/internal/siteconfig"
	dErrors "formprefill/pkg/domain-errors"
	"formprefill/pkg/platform/httputil"
	adminmw "formprefill/pkg/platform/middleware/admin"
	request "formprefill/pkg/platform/middleware/request"
	"formprefill/pkg/platform/sentinel"
)

const maxSiteDocumentSize = 256 << 10

// SiteStore persists site documents. Nil when sites are read from disk.
type SiteStore interface {
	Save(ctx context.Context, site *siteconfig.Site) error
	Delete(ctx context.Context, identifier string) error
}

// SiteRegistry is the loaded site snapshot.
type SiteRegistry interface {
	Reload(ctx context.Context) error
	ByIdentifier(identifier string) *siteconfig.Site
	Identifiers() []string
}

// AllowListResolver reports the effective allow-list of a site.
type AllowListResolver interface {
	AllowList(ctx context.Context, site *siteconfig.Site) gatekeeper.Resolution
}

// AdminHandler manages site configuration.
type AdminHandler struct {
	logger     *slog.Logger
	store      SiteStore
	registry   SiteRegistry
	allowLists AllowListResolver
	adminToken string
}

func NewAdmin(store SiteStore, registry SiteRegistry, allowLists AllowListResolver, adminToken string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		logger:     logger,
		store:      store,
		registry:   registry,
		allowLists: allowLists,
		adminToken: adminToken,
	}
}

type sitesResponse struct {
	Sites []string `json:"sites"`
}

type allowListResponse struct {
	Site   string   `json:"site"`
	Source string   `json:"source"`
	Fields []string `json:"fields"`
}

// Register registers the admin routes under /admin.
func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(adminmw.RequireAdminToken(h.adminToken, h.logger))
		ar.Get("/sites", h.handleListSites)
		ar.Post("/sites/reload", h.handleReload)
		ar.Get("/sites/{identifier}", h.handleGetSite)
		ar.Put("/sites/{identifier}", h.handlePutSite)
		ar.Delete("/sites/{identifier}", h.handleDeleteSite)
		ar.Get("/sites/{identifier}/allowlist", h.handleAllowList)
	})
}

func (h *AdminHandler) handleListSites(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, sitesResponse{Sites: h.registry.Identifiers()})
}

func (h *AdminHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	if !h.reload(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleGetSite(w http.ResponseWriter, r *http.Request) {
	site := h.registry.ByIdentifier(chi.URLParam(r, "identifier"))
	if site == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "site not found"))
		return
	}
	data, err := siteconfig.Marshal(site)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode site"))
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *AdminHandler) handlePutSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.store == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "site configuration is read-only"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSiteDocumentSize))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read body"))
		return
	}
	site, err := siteconfig.Parse(body)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	identifier := chi.URLParam(r, "identifier")
	if site.Identifier != identifier {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "identifier does not match path"))
		return
	}

	if err := h.store.Save(ctx, site); err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to save site configuration",
			"request_id", request.GetRequestID(ctx),
			"site", identifier,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save site"))
		return
	}
	if !h.reload(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.store == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "site configuration is read-only"))
		return
	}
	identifier := chi.URLParam(r, "identifier")
	if err := h.store.Delete(ctx, identifier); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "site not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete site configuration",
			"request_id", request.GetRequestID(ctx),
			"site", identifier,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete site"))
		return
	}
	if !h.reload(w, r) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleAllowList(w http.ResponseWriter, r *http.Request) {
	site := h.registry.ByIdentifier(chi.URLParam(r, "identifier"))
	if site == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "site not found"))
		return
	}
	res := h.allowLists.AllowList(r.Context(), site)
	httputil.WriteJSON(w, http.StatusOK, allowListResponse{
		Site:   site.Identifier,
		Source: string(res.Source),
		Fields: res.Fields,
	})
}

func (h *AdminHandler) reload(w http.ResponseWriter, r *http.Request) bool {
	ctx := r.Context()
	if err := h.registry.Reload(ctx); err != nil {
		h.logger.ErrorContext(ctx, "site configuration reload failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "reload failed"))
		return false
	}
	return true
}
