package place

import (
	"time"

	"github.com/google/uuid"

	"github.com/placeshare/places/pkg/geo"
)

// Place is a user-created point of interest. CreatorID is immutable after
// creation and always references an existing user whose Places set contains
// this place's id; the repository keeps both sides of that relationship in
// step inside one transaction.
type Place struct {
	ID          uuid.UUID
	Title       string
	Description string
	Address     string
	Location    geo.Coordinates
	ImageRef    string
	CreatorID   uuid.UUID
	CreatedAt   time.Time
}
