package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BuyerID   uuid.UUID `json:"buyer_id" db:"buyer_id"`
	ArtworkID uuid.UUID `json:"artwork_id" db:"artwork_id"`
	// ArtistID is captured from the artwork at creation time for
	// denormalized artist-side lookups.
	ArtistID uuid.UUID `json:"artist_id" db:"artist_id"`
	Status   Status    `json:"status" db:"status"`
	// TotalAmount and Currency are snapshots of the artwork price at the
	// moment of purchase. Later price edits do not touch existing orders.
	TotalAmount     float64         `json:"total_amount" db:"total_amount"`
	Currency        string          `json:"currency" db:"currency"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty" db:"payment_intent_id"`
	TrackingNumber  string          `json:"tracking_number,omitempty" db:"tracking_number"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

type ArtworkSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	PrimaryImageURL string    `json:"primary_image_url"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
}

type UserSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
}

// Details is an order joined with display snapshots of its artwork and
// counterparties. Any of the joined records may be nil if the referenced
// row has since been deleted.
type Details struct {
	Order
	Artwork *ArtworkSummary `json:"artwork"`
	Artist  *UserSummary    `json:"artist"`
	Buyer   *UserSummary    `json:"buyer"`
}

type CreateInput struct {
	BuyerID         uuid.UUID
	ArtworkID       uuid.UUID
	ShippingAddress ShippingAddress
	PaymentIntentID string
}

type StatusUpdate struct {
	Status         Status
	TrackingNumber *string
	Notes          *string
}
