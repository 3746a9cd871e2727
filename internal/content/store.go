package content

import (
	"context"

	id "formprefill/pkg/domain"
)

// Finder is the read side used by the resolver and the render handler.
type Finder interface {
	// FindForms returns the elements matching q ordered by uid.
	FindForms(ctx context.Context, q FormQuery) ([]Element, error)
	// FindByID returns a visible element. Unknown or invisible elements
	// yield an error wrapping sentinel.ErrNotFound.
	FindByID(ctx context.Context, uid id.ContentID) (Element, error)
}
