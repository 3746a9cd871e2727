package gatekeeper

import (
	"context"
	"log/slog"

	"formprefill/internal/extconf"
	"formprefill/internal/profile"
	"formprefill/internal/siteconfig"
)

// ExposedFields returns the subset of p whose keys are allowed for site. The
// result is a new map; p is not modified.
func ExposedFields(p profile.Profile, site *siteconfig.Site, defaults extconf.Result) map[string]string {
	return Filter(p, ResolveAllowList(site, defaults))
}

// Filter keeps the allowed keys of p that are present.
func Filter(p profile.Profile, allowed AllowList) map[string]string {
	out := make(map[string]string, len(allowed))
	for _, field := range allowed {
		if v, ok := p[field]; ok {
			out[field] = v
		}
	}
	return out
}

// Gatekeeper resolves allow-lists against a live extension configuration.
// The extension configuration is only read when the site has no list.
type Gatekeeper struct {
	defaults extconf.Provider
	logger   *slog.Logger
}

func New(defaults extconf.Provider, logger *slog.Logger) *Gatekeeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gatekeeper{defaults: defaults, logger: logger}
}

// AllowList resolves the allow-list for site.
func (g *Gatekeeper) AllowList(ctx context.Context, site *siteconfig.Site) Resolution {
	if _, ok := site.AllowedFields(); ok {
		return Resolve(site, extconf.Result{})
	}
	defaults := extconf.Load(ctx, g.defaults)
	if defaults.Err != nil {
		g.logger.WarnContext(ctx, "extension configuration unavailable, using fallback allow-list",
			"error", defaults.Err,
		)
	}
	return Resolve(site, defaults)
}

// Expose filters p for site and reports which source decided.
func (g *Gatekeeper) Expose(ctx context.Context, p profile.Profile, site *siteconfig.Site) (map[string]string, Resolution) {
	res := g.AllowList(ctx, site)
	return Filter(p, res.Fields), res
}
