package siteconfig

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Finder resolves the site a request belongs to. It holds the last loaded
// snapshot; Reload swaps it atomically.
type Finder struct {
	source Source

	mu     sync.RWMutex
	byHost map[string]*Site
	byID   map[string]*Site
	sites  []*Site
}

func NewFinder(source Source) *Finder {
	return &Finder{
		source: source,
		byHost: make(map[string]*Site),
		byID:   make(map[string]*Site),
	}
}

// Reload reads all sites from the source. On error the previous snapshot is
// kept.
func (f *Finder) Reload(ctx context.Context) error {
	sites, err := f.source.Load(ctx)
	if err != nil {
		return err
	}

	byHost := make(map[string]*Site, len(sites))
	byID := make(map[string]*Site, len(sites))
	for _, site := range sites {
		if _, dup := byID[site.Identifier]; dup {
			return fmt.Errorf("duplicate site identifier %q", site.Identifier)
		}
		byID[site.Identifier] = site
		if host := site.Host(); host != "" {
			byHost[host] = site
		}
	}

	f.mu.Lock()
	f.byHost = byHost
	f.byID = byID
	f.sites = sites
	f.mu.Unlock()
	return nil
}

// ByHost returns the site whose base host matches. With a single configured
// site that site is returned for any host. Nil means no site configuration.
func (f *Finder) ByHost(host string) *Site {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if site, ok := f.byHost[normalizeHost(host)]; ok {
		return site
	}
	if len(f.sites) == 1 {
		return f.sites[0]
	}
	return nil
}

// ByIdentifier returns the site with the given identifier, or nil.
func (f *Finder) ByIdentifier(identifier string) *Site {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.byID[identifier]
}

// Len returns the number of loaded sites.
func (f *Finder) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sites)
}

// Identifiers returns the loaded site identifiers in load order.
func (f *Finder) Identifiers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.sites))
	for _, s := range f.sites {
		out = append(out, s.Identifier)
	}
	return out
}

// Watch reloads every interval until ctx is done. Failed reloads are logged
// and the previous snapshot stays active. A non-positive interval disables
// reloading.
func (f *Finder) Watch(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := f.Reload(ctx); err != nil {
				logger.WarnContext(ctx, "site configuration reload failed", "error", err)
			}
		}
	}
}
