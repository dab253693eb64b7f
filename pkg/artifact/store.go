package artifact

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedType is returned for uploads outside the allowed image types.
var ErrUnsupportedType = errors.New("unsupported file type")

// Store holds uploaded binary artifacts. Refs are opaque strings minted by
// the implementation; callers must not assume they are paths or URLs.
// The store is not transactional: callers that pair it with entity writes
// are responsible for compensating deletes.
type Store interface {
	// Save persists the content of r and returns a ref for it.
	// mimeType selects the stored format and may be rejected.
	Save(ctx context.Context, mimeType string, r io.Reader) (string, error)
	// Remove deletes a previously saved artifact.
	Remove(ctx context.Context, ref string) error
}
