package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const defaultPublicLimit = 20

type Service interface {
	Create(ctx context.Context, c *Collection) (*Collection, error)
	Get(ctx context.Context, id uuid.UUID) (*Details, error)
	ListByUser(ctx context.Context, userID uuid.UUID, isPublic *bool) ([]Summary, error)
	ListPublic(ctx context.Context, limit int) ([]Summary, error)
	Update(ctx context.Context, id uuid.UUID, update Update) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) error
	RemoveArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, c *Collection) (*Collection, error) {
	if c.Name == "" {
		return nil, errors.New("service: collection name cannot be empty")
	}
	if c.UserID == uuid.Nil {
		return nil, errors.New("service: collection owner cannot be nil")
	}

	if _, err := s.repo.Create(ctx, c); err != nil {
		log.Error().Err(err).Msg("service: failed to create collection")
		return nil, fmt.Errorf("service: failed to create collection: %w", err)
	}

	log.Info().Stringer("collection_id", c.ID).Stringer("user_id", c.UserID).Msg("service: collection created")

	return c, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Details, error) {
	details, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("collection_id", id).Msg("service: failed to fetch collection")
		return nil, fmt.Errorf("service: failed to fetch collection: %w", err)
	}

	return details, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, isPublic *bool) ([]Summary, error) {
	summaries, err := s.repo.ListByUser(ctx, userID, isPublic)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list collections")
		return nil, fmt.Errorf("service: failed to list collections: %w", err)
	}

	return summaries, nil
}

func (s *service) ListPublic(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = defaultPublicLimit
	}

	summaries, err := s.repo.ListPublic(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list public collections")
		return nil, fmt.Errorf("service: failed to list public collections: %w", err)
	}

	return summaries, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, update Update) error {
	err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("collection_id", id).Msg("service: failed to update collection")
		return fmt.Errorf("service: failed to update collection: %w", err)
	}

	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Stringer("collection_id", id).Msg("service: failed to delete collection")
		return fmt.Errorf("service: failed to delete collection: %w", err)
	}

	return nil
}

func (s *service) AddArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) error {
	err := s.repo.AddArtwork(ctx, collectionID, artworkID)
	if err != nil {
		if errors.Is(err, ErrArtworkAlreadyAdded) {
			return ErrArtworkAlreadyAdded
		}
		log.Error().Err(err).Stringer("collection_id", collectionID).Stringer("artwork_id", artworkID).Msg("service: failed to add artwork to collection")
		return fmt.Errorf("service: failed to add artwork to collection: %w", err)
	}

	return nil
}

func (s *service) RemoveArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) (bool, error) {
	removed, err := s.repo.RemoveArtwork(ctx, collectionID, artworkID)
	if err != nil {
		log.Error().Err(err).Stringer("collection_id", collectionID).Stringer("artwork_id", artworkID).Msg("service: failed to remove artwork from collection")
		return false, fmt.Errorf("service: failed to remove artwork from collection: %w", err)
	}

	return removed, nil
}
