package place

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound        = errors.New("place not found")
	ErrOwnerNotFound   = errors.New("owner not found")
	ErrEditForbidden   = errors.New("users can only edit places they added")
	ErrDeleteForbidden = errors.New("users can only delete places they added")
	ErrTransaction     = errors.New("transaction failed")
)

// Repository is the persistence port for places.
//
// Create and Delete are atomic multi-entity writes: the place row and the
// owner's Places set change together or not at all. Implementations must
// never let a reader observe one without the other.
type Repository interface {
	// Create inserts p and appends p.ID to the creator's Places set in one
	// transaction. Returns ErrOwnerNotFound when the creator row is gone.
	Create(ctx context.Context, p Place) error
	GetByID(ctx context.Context, id uuid.UUID) (Place, error)
	// ListByCreator returns an empty slice, not an error, for an unknown or
	// placeless creator.
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]Place, error)
	// Update persists title/description changes. Single-entity write.
	Update(ctx context.Context, p Place) error
	// Delete removes the place and pulls its id from the creator's Places
	// set in one transaction. Returns ErrNotFound when the row is already
	// gone, so concurrent deletes get exactly one winner.
	Delete(ctx context.Context, id, creatorID uuid.UUID) error
}
