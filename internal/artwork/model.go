package artwork

import (
	"time"

	"github.com/gofrs/uuid"
)

type Category string

const (
	CategoryPainting    Category = "painting"
	CategorySculpture   Category = "sculpture"
	CategoryPhotography Category = "photography"
	CategoryDigital     Category = "digital"
	CategoryMixedMedia  Category = "mixed-media"
	CategoryDrawing     Category = "drawing"
)

type Dimensions struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Depth  *float64 `json:"depth,omitempty"`
	Unit   string   `json:"unit"`
}

type Artwork struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	ArtistID        uuid.UUID  `json:"artist_id" db:"artist_id"`
	Category        Category   `json:"category" db:"category"`
	Medium          string     `json:"medium" db:"medium"`
	Dimensions      Dimensions `json:"dimensions"`
	Price           float64    `json:"price" db:"price"`
	Currency        string     `json:"currency" db:"currency"`
	PrimaryImageURL string     `json:"primary_image_url" db:"primary_image_url"`
	Tags            []string   `json:"tags" db:"tags"`
	IsAvailable     bool       `json:"is_available" db:"is_available"`
	IsFeatured      bool       `json:"is_featured" db:"is_featured"`
	YearCreated     *int       `json:"year_created,omitempty" db:"year_created"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// ArtistSummary is the slice of an artist profile shipped alongside
// catalog results.
type ArtistSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image,omitempty"`
	IsVerified   bool      `json:"is_verified"`
}

type ArtworkWithArtist struct {
	Artwork
	Artist *ArtistSummary `json:"artist"`
}

// Filter narrows a catalog listing. Nil pointer fields are not applied;
// the rest translate to predicates in declaration order.
type Filter struct {
	Category    *Category
	MinPrice    *float64
	MaxPrice    *float64
	IsAvailable *bool
	IsFeatured  *bool
	Limit       int
	Offset      int
}
