package formdef

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"formprefill/pkg/platform/sentinel"
)

const extensionPrefix = "EXT:"

// Loader resolves persistence identifiers. "EXT:<extension>/<path>" is read
// below the extension directory; "<storage>:/<path>" and plain paths are
// read from the form storage.
type Loader struct {
	extensionDir string
	storage      Storage
}

func NewLoader(extensionDir string, storage Storage) *Loader {
	return &Loader{extensionDir: extensionDir, storage: storage}
}

// Load reads and parses the definition behind persistenceIdentifier.
func (l *Loader) Load(ctx context.Context, persistenceIdentifier string) (Definition, error) {
	data, err := l.read(ctx, strings.TrimSpace(persistenceIdentifier))
	if err != nil {
		return Definition{}, err
	}
	return Parse(data)
}

func (l *Loader) read(ctx context.Context, ident string) ([]byte, error) {
	if ident == "" {
		return nil, fmt.Errorf("empty persistence identifier: %w", sentinel.ErrMalformed)
	}

	if rest, ok := strings.CutPrefix(ident, extensionPrefix); ok {
		if l.extensionDir == "" {
			return nil, fmt.Errorf("extension directory not configured: %w", sentinel.ErrUnavailable)
		}
		rel, err := cleanRelative(rest)
		if err != nil {
			return nil, err
		}
		return readLimited(filepath.Join(l.extensionDir, filepath.FromSlash(rel)))
	}

	if l.storage == nil {
		return nil, fmt.Errorf("form storage not configured: %w", sentinel.ErrUnavailable)
	}
	return l.storage.Read(ctx, storagePath(ident))
}

// storagePath drops a leading "<storage>:" qualifier such as "1:".
func storagePath(ident string) string {
	if prefix, rest, ok := strings.Cut(ident, ":"); ok && isDigits(prefix) {
		return rest
	}
	return ident
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
