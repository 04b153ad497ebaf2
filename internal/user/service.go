package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	// EnsureUser resolves an external identity to an internal user,
	// creating a placeholder record on first sight. Idempotent.
	EnsureUser(ctx context.Context, externalID string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	ListArtists(ctx context.Context, limit int, verifiedOnly *bool) ([]Artist, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) EnsureUser(ctx context.Context, externalID string) (*User, error) {
	if externalID == "" {
		return nil, errors.New("service: external id cannot be empty")
	}

	existing, err := s.repo.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		log.Error().Err(err).Str("external_id", externalID).Msg("service: failed to look up user by external id")
		return nil, fmt.Errorf("service: failed to look up user: %w", err)
	}

	// Placeholder profile, filled in when the user completes their profile.
	placeholder := &User{
		ExternalID: externalID,
		Name:       "User",
	}

	if _, err := s.repo.Create(ctx, placeholder); err != nil {
		// A concurrent first request may have provisioned the same identity.
		if created, lookupErr := s.repo.GetByExternalID(ctx, externalID); lookupErr == nil {
			return created, nil
		}
		log.Error().Err(err).Str("external_id", externalID).Msg("service: failed to provision user")
		return nil, fmt.Errorf("service: failed to provision user: %w", err)
	}

	log.Info().Stringer("user_id", placeholder.ID).Str("external_id", externalID).Msg("service: provisioned user for external identity")

	return placeholder, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("user_id", id).Msg("service: failed to fetch user by id")
		return nil, fmt.Errorf("service: failed to fetch user by id: %w", err)
	}

	return u, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to fetch user by email")
		return nil, fmt.Errorf("service: failed to fetch user by email: %w", err)
	}

	return u, nil
}

func (s *service) UpdateUser(ctx context.Context, u *User) error {
	err := s.repo.Update(ctx, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("user_id", u.ID).Msg("service: failed to update user")
		return fmt.Errorf("service: failed to update user: %w", err)
	}

	return nil
}

func (s *service) ListArtists(ctx context.Context, limit int, verifiedOnly *bool) ([]Artist, error) {
	if limit <= 0 {
		limit = 20
	}

	artists, err := s.repo.ListArtists(ctx, limit, verifiedOnly)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list artists")
		return nil, fmt.Errorf("service: failed to list artists: %w", err)
	}

	return artists, nil
}
