package cart

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/artvista/marketplace/internal/artwork"
)

type Item struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ArtworkID uuid.UUID `json:"artwork_id" db:"artwork_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}

// ItemDetails joins a cart row with its artwork and the artist summary
// for display. Rows whose artwork has been deleted never reach here; the
// repository join drops them.
type ItemDetails struct {
	Item
	Artwork artwork.ArtworkWithArtist `json:"artwork"`
}
