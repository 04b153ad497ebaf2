package promo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalid       = "Invalid promo code. Please try again."
	msgExpired       = "This promo code has expired."
	msgUsageLimit    = "This promo code has reached its usage limit."
	msgMinOrder      = "Minimum order amount not met."
	msgAppliedFormat = "Promo code applied! %s."
)

type Service interface {
	// Validate checks a code without consuming it. Business failures come
	// back inside the result, never as an error.
	Validate(ctx context.Context, code string) (ValidationResult, error)
	// ValidateForAmount runs Validate plus the minimum-order check
	// against the given subtotal.
	ValidateForAmount(ctx context.Context, code string, subtotal float64) (ValidationResult, error)
	// Consume increments the usage counter. Distinct from Validate so a
	// merely-checked code does not burn a use.
	Consume(ctx context.Context, code string) error
	Create(ctx context.Context, p *PromoCode) (*PromoCode, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]PromoCode, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Validate(ctx context.Context, code string) (ValidationResult, error) {
	p, err := s.repo.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ValidationResult{Valid: false, Message: msgInvalid}, nil
		}
		log.Error().Err(err).Str("code", code).Msg("service: failed to look up promo code")
		return ValidationResult{}, fmt.Errorf("service: failed to look up promo code: %w", err)
	}

	if p.ExpiresAt != nil && p.ExpiresAt.Before(time.Now()) {
		return ValidationResult{Valid: false, Message: msgExpired}, nil
	}

	if p.MaxUses != nil && p.UsedCount >= *p.MaxUses {
		return ValidationResult{Valid: false, Message: msgUsageLimit}, nil
	}

	var discount string
	if p.DiscountType == DiscountPercentage {
		discount = fmt.Sprintf("%g%% off", p.DiscountValue)
	} else {
		discount = fmt.Sprintf("$%g off", p.DiscountValue)
	}

	return ValidationResult{
		Valid:          true,
		Message:        fmt.Sprintf(msgAppliedFormat, discount),
		DiscountType:   p.DiscountType,
		DiscountValue:  p.DiscountValue,
		MinOrderAmount: p.MinOrderAmount,
	}, nil
}

func (s *service) ValidateForAmount(ctx context.Context, code string, subtotal float64) (ValidationResult, error) {
	result, err := s.Validate(ctx, code)
	if err != nil || !result.Valid {
		return result, err
	}

	if result.MinOrderAmount != nil && subtotal < *result.MinOrderAmount {
		return ValidationResult{Valid: false, Message: msgMinOrder}, nil
	}

	return result, nil
}

func (s *service) Consume(ctx context.Context, code string) error {
	err := s.repo.IncrementUsage(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Str("code", code).Msg("service: failed to consume promo code")
		return fmt.Errorf("service: failed to consume promo code: %w", err)
	}

	log.Info().Str("code", code).Msg("service: promo code consumed")

	return nil
}

func (s *service) Create(ctx context.Context, p *PromoCode) (*PromoCode, error) {
	if p.Code == "" {
		return nil, errors.New("service: promo code cannot be empty")
	}
	if p.DiscountType != DiscountPercentage && p.DiscountType != DiscountFixed {
		return nil, errors.New("service: unknown discount type")
	}
	if p.DiscountValue <= 0 {
		return nil, errors.New("service: discount value must be positive")
	}

	p.UsedCount = 0
	p.IsActive = true

	if _, err := s.repo.Create(ctx, p); err != nil {
		log.Error().Err(err).Str("code", p.Code).Msg("service: failed to create promo code")
		return nil, fmt.Errorf("service: failed to create promo code: %w", err)
	}

	log.Info().Str("code", p.Code).Msg("service: promo code created")

	return p, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("promo_id", id).Msg("service: failed to deactivate promo code")
		return fmt.Errorf("service: failed to deactivate promo code: %w", err)
	}

	return nil
}

func (s *service) ListActive(ctx context.Context) ([]PromoCode, error) {
	codes, err := s.repo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list active promo codes")
		return nil, fmt.Errorf("service: failed to list active promo codes: %w", err)
	}

	return codes, nil
}
