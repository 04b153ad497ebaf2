package promo

import (
	"time"

	"github.com/gofrs/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PromoCode struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	Code           string       `json:"code" db:"code"`
	DiscountType   DiscountType `json:"discount_type" db:"discount_type"`
	DiscountValue  float64      `json:"discount_value" db:"discount_value"`
	MinOrderAmount *float64     `json:"min_order_amount,omitempty" db:"min_order_amount"`
	MaxUses        *int         `json:"max_uses,omitempty" db:"max_uses"`
	UsedCount      int          `json:"used_count" db:"used_count"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty" db:"expires_at"`
	Description    string       `json:"description,omitempty" db:"description"`
	IsActive       bool         `json:"is_active" db:"is_active"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// ValidationResult is the outcome of checking a code. An unusable code
// is an expected answer, not an error, so it travels as a value.
type ValidationResult struct {
	Valid          bool         `json:"valid"`
	Message        string       `json:"message"`
	DiscountType   DiscountType `json:"discount_type,omitempty"`
	DiscountValue  float64      `json:"discount_value,omitempty"`
	MinOrderAmount *float64     `json:"min_order_amount,omitempty"`
}
