// Package render turns a prefill element into the HTML fragment embedded in
// the page: the mapping script, or a diagnostic when the target form cannot
// be identified.
package render

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"formprefill/internal/content"
	"formprefill/internal/formidentity"
	"formprefill/internal/mapping"
	"formprefill/internal/render/metrics"
	"formprefill/internal/siteconfig"
	id "formprefill/pkg/domain"
)

// Resolver resolves the form targeted by a prefill element.
type Resolver interface {
	Scope() formidentity.LanguageScope
	ResolveScoped(ctx context.Context, scope formidentity.LanguageScope, pageID id.PageID, languageID id.LanguageID, settings content.Settings) (string, error)
}

// Request is one prefill element to render. Site may be nil.
type Request struct {
	Element content.Element
	Site    *siteconfig.Site
}

// Output is the rendered fragment.
type Output struct {
	HTML           string
	Outcome        Outcome
	FormIdentifier string
	Mapping        mapping.FieldMapping
}

// Renderer sequences form identification and mapping build.
type Renderer struct {
	resolver Resolver
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(resolver Resolver, m *metrics.Metrics, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{resolver: resolver, metrics: m, logger: logger}
}

// Render never fails: identification errors become diagnostics.
func (r *Renderer) Render(ctx context.Context, req Request) Output {
	start := time.Now()
	ctx, span := otel.Tracer("formprefill/render").Start(ctx, "render.Render")
	defer span.End()
	span.SetAttributes(attribute.Int64("content.id", int64(req.Element.UID)))

	out := r.render(ctx, req)

	span.SetAttributes(attribute.String("render.outcome", string(out.Outcome)))
	r.metrics.IncrementOutcome(string(out.Outcome))
	r.metrics.ObserveRenderLatency(time.Since(start))
	return out
}

func (r *Renderer) render(ctx context.Context, req Request) Output {
	settings, err := req.Element.DecodeSettings()
	if err != nil {
		r.logger.WarnContext(ctx, "ignoring unreadable prefill settings",
			"content_id", req.Element.UID.String(),
			"error", err,
		)
		settings = content.Settings{}
	}

	ident, err := r.resolver.ResolveScoped(ctx, r.scopeFor(ctx, req.Site), req.Element.PID, req.Element.LanguageID, settings)
	if err != nil {
		outcome := outcomeFor(err)
		return Output{HTML: Diagnostic(outcome), Outcome: outcome}
	}

	m := mapping.Build(settings.FieldMapping, ident, req.Site)
	html, err := Script(ident, m)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to encode mapping script",
			"form_identifier", ident,
			"error", err,
		)
		return Output{HTML: Diagnostic(OutcomeDefinitionUnresolvable), Outcome: OutcomeDefinitionUnresolvable}
	}
	r.metrics.ObserveMappingSize(len(m))

	return Output{HTML: html, Outcome: OutcomeScript, FormIdentifier: ident, Mapping: m}
}

// scopeFor lets a site override the resolver's default language scope.
func (r *Renderer) scopeFor(ctx context.Context, site *siteconfig.Site) formidentity.LanguageScope {
	raw := site.LanguageScope()
	if raw == "" {
		return r.resolver.Scope()
	}
	scope, err := formidentity.ParseLanguageScope(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "ignoring invalid site language scope",
			"site", site.Identifier,
			"scope", raw,
		)
		return r.resolver.Scope()
	}
	return scope
}
