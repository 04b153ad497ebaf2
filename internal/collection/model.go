package collection

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/artvista/marketplace/internal/artwork"
)

type Collection struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CoverImage  string    `json:"cover_image,omitempty" db:"cover_image"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type OwnerSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Bio          string    `json:"bio,omitempty"`
}

// Summary is a collection listing entry: the total artwork count and up
// to four preview artworks, in list order.
type Summary struct {
	Collection
	Owner           *OwnerSummary    `json:"owner,omitempty"`
	ArtworkCount    int              `json:"artwork_count"`
	PreviewArtworks []PreviewArtwork `json:"preview_artworks"`
}

type PreviewArtwork struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	PrimaryImageURL string    `json:"primary_image_url"`
}

// Details is the full collection view: every retained artwork reference,
// resolved in position order. References to deleted artworks drop out of
// the join; references to unavailable artworks are kept.
type Details struct {
	Collection
	Owner    *OwnerSummary               `json:"owner"`
	Artworks []artwork.ArtworkWithArtist `json:"artworks"`
}

type Update struct {
	Name        *string
	Description *string
	IsPublic    *bool
	CoverImage  *string
}
