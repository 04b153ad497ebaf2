package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ExternalID   string    `json:"external_id,omitempty" db:"external_id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role,omitempty" db:"role"`
	ProfileImage string    `json:"profile_image,omitempty" db:"profile_image"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	Location     string    `json:"location,omitempty" db:"location"`
	Website      string    `json:"website,omitempty" db:"website"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Artist is a user with the artist role plus the number of artworks
// they currently have up for sale.
type Artist struct {
	User
	ArtworkCount int `json:"artwork_count"`
}
