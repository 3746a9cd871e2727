// Package formidentity works out which form a prefill element targets.
package formidentity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"formprefill/internal/content"
	"formprefill/internal/formdef"
	id "formprefill/pkg/domain"
	dErrors "formprefill/pkg/domain-errors"
)

// Resolution failures. Callers branch with errors.Is; causes stay wrapped
// for logging only.
var (
	ErrNoFormFound                = errors.New("no active form found on page")
	ErrAmbiguousForm              = errors.New("more than one active form found on page")
	ErrFormDefinitionUnresolvable = errors.New("form definition could not be resolved")
)

// FormFinder lists the visible form elements of a page.
type FormFinder interface {
	FindForms(ctx context.Context, q content.FormQuery) ([]content.Element, error)
}

// DefinitionLoader loads a form definition by persistence identifier.
type DefinitionLoader interface {
	Load(ctx context.Context, persistenceIdentifier string) (formdef.Definition, error)
}

// LanguageScope controls whether form discovery is limited to the language
// of the request.
type LanguageScope string

const (
	LanguageScopeRequest LanguageScope = "request"
	LanguageScopeAll     LanguageScope = "all"
)

// ParseLanguageScope accepts "request", "all" or empty (request).
func ParseLanguageScope(s string) (LanguageScope, error) {
	switch LanguageScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageScopeRequest:
		return LanguageScopeRequest, nil
	case LanguageScopeAll:
		return LanguageScopeAll, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown form language scope %q", s))
	}
}

// Resolver resolves form identifiers.
type Resolver struct {
	forms       FormFinder
	definitions DefinitionLoader
	scope       LanguageScope
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLanguageScope sets the default language scope.
func WithLanguageScope(scope LanguageScope) Option {
	return func(r *Resolver) {
		if scope != "" {
			r.scope = scope
		}
	}
}

// WithLogger sets the logger used for swallowed causes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(forms FormFinder, definitions DefinitionLoader, opts ...Option) *Resolver {
	r := &Resolver{
		forms:       forms,
		definitions: definitions,
		scope:       LanguageScopeRequest,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Scope returns the default language scope.
func (r *Resolver) Scope() LanguageScope {
	return r.scope
}

// Resolve returns the form identifier for a prefill element on pageID using
// the default language scope.
func (r *Resolver) Resolve(ctx context.Context, pageID id.PageID, languageID id.LanguageID, settings content.Settings) (string, error) {
	return r.ResolveScoped(ctx, r.scope, pageID, languageID, settings)
}

// ResolveScoped is Resolve with an explicit language scope. An author
// override is returned verbatim without touching storage.
func (r *Resolver) ResolveScoped(ctx context.Context, scope LanguageScope, pageID id.PageID, languageID id.LanguageID, settings content.Settings) (string, error) {
	ctx, span := otel.Tracer("formprefill/formidentity").Start(ctx, "formidentity.Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("page.id", int64(pageID)),
		attribute.Int64("language.id", int64(languageID)),
		attribute.String("language.scope", string(scope)),
	)

	if override := strings.TrimSpace(settings.FormIdentifier); override != "" {
		span.SetAttributes(attribute.Bool("form.override", true))
		return override, nil
	}

	ident, err := r.discover(ctx, scope, pageID, languageID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.String("form.identifier", ident))
	return ident, nil
}

func (r *Resolver) discover(ctx context.Context, scope LanguageScope, pageID id.PageID, languageID id.LanguageID) (string, error) {
	forms, err := r.forms.FindForms(ctx, content.FormQuery{
		PageID:       pageID,
		LanguageID:   languageID,
		AllLanguages: scope == LanguageScopeAll,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "form query failed",
			"page_id", pageID.String(),
			"error", err,
		)
		return "", fmt.Errorf("%w: %w", ErrNoFormFound, err)
	}

	switch len(forms) {
	case 0:
		return "", ErrNoFormFound
	case 1:
	default:
		return "", ErrAmbiguousForm
	}

	form := forms[0]
	ident, err := r.identifierOf(ctx, form)
	if err != nil {
		r.logger.WarnContext(ctx, "form definition unresolvable",
			"page_id", pageID.String(),
			"content_id", form.UID.String(),
			"error", err,
		)
		return "", fmt.Errorf("%w: %w", ErrFormDefinitionUnresolvable, err)
	}
	return ident, nil
}

func (r *Resolver) identifierOf(ctx context.Context, form content.Element) (string, error) {
	settings, err := form.DecodeSettings()
	if err != nil {
		return "", err
	}
	def, err := r.definitions.Load(ctx, settings.PersistenceIdentifier)
	if err != nil {
		return "", err
	}
	return Compose(def.Identifier, form.UID), nil
}

// Compose builds the identifier of a placed form, "<identifier>-<uid>".
func Compose(declared string, uid id.ContentID) string {
	return declared + "-" + uid.String()
}
