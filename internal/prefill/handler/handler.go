// Package handler exposes the prefill endpoints: the allow-listed user data,
// the mapping fragment for a prefill element, and the client script.
package handler

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"formprefill/internal/audit"
	"formprefill/internal/content"
	"formprefill/internal/gatekeeper"
	"formprefill/internal/platform/metrics"
	"formprefill/internal/profile"
	"formprefill/internal/render"
	"formprefill/internal/siteconfig"
	id "formprefill/pkg/domain"
	dErrors "formprefill/pkg/domain-errors"
	"formprefill/pkg/platform/httputil"
	request "formprefill/pkg/platform/middleware/request"
	"formprefill/pkg/platform/sentinel"
	"formprefill/pkg/requestcontext"
)

//go:embed assets/prefill.js
var assets embed.FS

const (
	messageAuthenticationRequired = "Authentication required"
	messageNoValidSession         = "No valid user session"
)

// ProfileStore loads the profile of the logged-in user.
type ProfileStore interface {
	FindByID(ctx context.Context, userID id.UserID) (profile.Profile, error)
}

// SiteFinder resolves the site serving a request host. May return nil.
type SiteFinder interface {
	ByHost(host string) *siteconfig.Site
}

// Gatekeeper filters a profile for a site.
type Gatekeeper interface {
	Expose(ctx context.Context, p profile.Profile, site *siteconfig.Site) (map[string]string, gatekeeper.Resolution)
}

// ElementFinder loads the prefill element being rendered.
type ElementFinder interface {
	FindByID(ctx context.Context, uid id.ContentID) (content.Element, error)
}

// Renderer renders a prefill element.
type Renderer interface {
	Render(ctx context.Context, req render.Request) render.Output
}

// AuditPublisher records data exposure.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Handler handles the prefill endpoints.
type Handler struct {
	logger   *slog.Logger
	metrics  *metrics.Metrics
	profiles ProfileStore
	sites    SiteFinder
	gate     Gatekeeper
	elements ElementFinder
	renderer Renderer
	audit    AuditPublisher
	timeout  time.Duration
}

// Deps bundles the collaborators of New.
type Deps struct {
	Profiles ProfileStore
	Sites    SiteFinder
	Gate     Gatekeeper
	Elements ElementFinder
	Renderer Renderer
	Audit    AuditPublisher
}

// New creates a new prefill Handler. A nil metrics is allowed.
func New(deps Deps, logger *slog.Logger, m *metrics.Metrics, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{
		logger:   logger,
		metrics:  m,
		profiles: deps.Profiles,
		sites:    deps.Sites,
		gate:     deps.Gate,
		elements: deps.Elements,
		renderer: deps.Renderer,
		audit:    deps.Audit,
		timeout:  timeout,
	}
}

// Register registers the prefill routes with the chi router. Identity,
// request id and logging middleware are expected on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(pr chi.Router) {
		pr.Use(chimw.Timeout(h.timeout))
		pr.Get("/prefill-user.json", h.handleUserData)
		pr.Get("/prefill/render/{contentID}", h.handleRender)
	})
	r.Get("/prefill.js", h.handleScript)
}

// handleUserData returns the allow-listed profile fields of the logged-in user.
func (h *Handler) handleUserData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)
	w.Header().Set("Cache-Control", "no-store, private")

	userID, ok := requestcontext.UserID(ctx)
	if !ok {
		h.deny(ctx, w, 0, "unauthenticated", messageAuthenticationRequired)
		return
	}
	if !userID.IsValid() {
		h.deny(ctx, w, userID, "invalid_session", messageNoValidSession)
		return
	}

	p, err := h.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			h.deny(ctx, w, userID, "invalid_session", messageNoValidSession)
			return
		}
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", requestID,
			"error", err,
		)
		h.metrics.IncrementUserDataRequest("error")
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile"))
		return
	}

	site := h.sites.ByHost(r.Host)
	fields, res := h.gate.Expose(ctx, p, site)

	h.metrics.IncrementUserDataRequest("served")
	h.metrics.ObserveExposedFields(string(res.Source), len(fields))
	h.audit.Emit(ctx, audit.Event{
		Action:          audit.EventPrefillDataExposed,
		UserID:          userID,
		Site:            siteIdentifier(site),
		Fields:          slices.Sorted(maps.Keys(fields)),
		AllowListSource: string(res.Source),
	})

	httputil.WriteJSON(w, http.StatusOK, fields)
}

func (h *Handler) deny(ctx context.Context, w http.ResponseWriter, userID id.UserID, outcome, message string) {
	h.logger.InfoContext(ctx, "prefill data request denied",
		"reason", outcome,
		"request_id", request.GetRequestID(ctx),
	)
	h.metrics.IncrementUserDataRequest(outcome)
	h.audit.Emit(ctx, audit.Event{
		Action: audit.EventPrefillDenied,
		UserID: userID,
		Reason: outcome,
	})
	httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{Error: message})
}

// handleRender returns the mapping script, or a diagnostic, for a prefill element.
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	contentID, err := id.ParseContentID(chi.URLParam(r, "contentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	element, err := h.elements.FindByID(ctx, contentID)
	if err == nil && element.ContentType != id.ContentTypePrefill {
		err = sentinel.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "prefill element not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to load prefill element",
			"request_id", requestID,
			"content_id", contentID.String(),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prefill element"))
		return
	}

	out := h.renderer.Render(ctx, render.Request{Element: element, Site: h.sites.ByHost(r.Host)})
	if out.Outcome != render.OutcomeScript {
		h.logger.InfoContext(ctx, "prefill element rendered a diagnostic",
			"request_id", requestID,
			"content_id", contentID.String(),
			"outcome", string(out.Outcome),
		)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.HTML))
}

func (h *Handler) handleScript(w http.ResponseWriter, r *http.Request) {
	data, err := assets.ReadFile("assets/prefill.js")
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "asset missing"))
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func siteIdentifier(site *siteconfig.Site) string {
	if site == nil {
		return ""
	}
	return site.Identifier
}
