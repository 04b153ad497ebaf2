package favorite

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/artvista/marketplace/internal/artwork"
)

type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ArtworkID uuid.UUID `json:"artwork_id" db:"artwork_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type FavoriteDetails struct {
	Favorite
	Artwork artwork.ArtworkWithArtist `json:"artwork"`
}

type ToggleAction string

const (
	ActionAdded   ToggleAction = "added"
	ActionRemoved ToggleAction = "removed"
)

type ToggleResult struct {
	Action     ToggleAction `json:"action"`
	FavoriteID uuid.UUID    `json:"favorite_id"`
}
