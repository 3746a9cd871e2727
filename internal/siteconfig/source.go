package siteconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"formprefill/pkg/platform/sentinel"
)

// Source loads all site documents from a backing store.
type Source interface {
	Load(ctx context.Context) ([]*Site, error)
}

// DirSource reads <dir>/<identifier>/config.yaml files, the layout used by
// the hosting CMS for site configuration.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Load(_ context.Context) ([]*Site, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list site configs: %w", err)
	}
	sort.Strings(matches)

	sites := make([]*Site, 0, len(matches))
	for _, path := range matches {
		site, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// LoadFile reads and parses a single site document.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read site config %s: %w", path, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("read site config %s: %w", path, err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse site config %s: %w", path, err)
	}
	return site, nil
}
