package favorite

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

type Service interface {
	Add(ctx context.Context, userID, artworkID uuid.UUID) (uuid.UUID, error)
	Remove(ctx context.Context, userID, artworkID uuid.UUID) error
	Toggle(ctx context.Context, userID, artworkID uuid.UUID) (ToggleResult, error)
	IsFavorited(ctx context.Context, userID, artworkID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]FavoriteDetails, error)
	CountForArtwork(ctx context.Context, artworkID uuid.UUID) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Add(ctx context.Context, userID, artworkID uuid.UUID) (uuid.UUID, error) {
	id, err := s.repo.Insert(ctx, userID, artworkID)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return uuid.Nil, ErrAlreadyExists
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to add favorite")
		return uuid.Nil, fmt.Errorf("service: failed to add favorite: %w", err)
	}

	return id, nil
}

func (s *service) Remove(ctx context.Context, userID, artworkID uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, userID, artworkID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to remove favorite")
		return fmt.Errorf("service: failed to remove favorite: %w", err)
	}
	if !removed {
		return ErrNotFound
	}

	return nil
}

func (s *service) Toggle(ctx context.Context, userID, artworkID uuid.UUID) (ToggleResult, error) {
	existing, err := s.repo.Get(ctx, userID, artworkID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to look up favorite for toggle")
		return ToggleResult{}, fmt.Errorf("service: failed to look up favorite: %w", err)
	}

	if existing != nil {
		if _, err := s.repo.Delete(ctx, userID, artworkID); err != nil {
			log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to remove favorite during toggle")
			return ToggleResult{}, fmt.Errorf("service: failed to remove favorite: %w", err)
		}
		return ToggleResult{Action: ActionRemoved, FavoriteID: existing.ID}, nil
	}

	id, err := s.repo.Insert(ctx, userID, artworkID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to add favorite during toggle")
		return ToggleResult{}, fmt.Errorf("service: failed to add favorite: %w", err)
	}

	return ToggleResult{Action: ActionAdded, FavoriteID: id}, nil
}

func (s *service) IsFavorited(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	_, err := s.repo.Get(ctx, userID, artworkID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to check favorite")
		return false, fmt.Errorf("service: failed to check favorite: %w", err)
	}

	return true, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]FavoriteDetails, error) {
	favorites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list favorites")
		return nil, fmt.Errorf("service: failed to list favorites: %w", err)
	}

	return favorites, nil
}

func (s *service) CountForArtwork(ctx context.Context, artworkID uuid.UUID) (int64, error) {
	count, err := s.repo.CountByArtwork(ctx, artworkID)
	if err != nil {
		log.Error().Err(err).Stringer("artwork_id", artworkID).Msg("service: failed to count favorites")
		return 0, fmt.Errorf("service: failed to count favorites: %w", err)
	}

	return count, nil
}
