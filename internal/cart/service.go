package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/artwork"
)

// ArtworkReader is the slice of the catalog the cart needs: existence
// and availability checks on add.
type ArtworkReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*artwork.ArtworkWithArtist, error)
}

type Service interface {
	Add(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (uuid.UUID, error)
	Remove(ctx context.Context, userID, artworkID uuid.UUID) (bool, error)
	UpdateQuantity(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	ItemQuantity(ctx context.Context, userID, artworkID uuid.UUID) (int, error)
	List(ctx context.Context, userID uuid.UUID) ([]ItemDetails, error)
}

type service struct {
	repo     Repository
	artworks ArtworkReader
}

func NewService(repo Repository, artworks ArtworkReader) Service {
	return &service{repo: repo, artworks: artworks}
}

func (s *service) Add(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (uuid.UUID, error) {
	if quantity <= 0 {
		quantity = 1
	}

	item, err := s.artworks.GetByID(ctx, artworkID)
	if err != nil {
		if errors.Is(err, artwork.ErrNotFound) {
			log.Warn().Stringer("artwork_id", artworkID).Msg("service: attempt to add unknown artwork to cart")
			return uuid.Nil, artwork.ErrNotFound
		}
		log.Error().Err(err).Stringer("artwork_id", artworkID).Msg("service: failed to fetch artwork for cart add")
		return uuid.Nil, fmt.Errorf("service: failed to fetch artwork for cart add: %w", err)
	}

	if !item.IsAvailable {
		log.Warn().Stringer("artwork_id", artworkID).Msg("service: attempt to add unavailable artwork to cart")
		return uuid.Nil, artwork.ErrUnavailable
	}

	itemID, err := s.repo.Upsert(ctx, userID, artworkID, quantity)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to add cart item")
		return uuid.Nil, fmt.Errorf("service: failed to add cart item: %w", err)
	}

	return itemID, nil
}

func (s *service) Remove(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	removed, err := s.repo.Delete(ctx, userID, artworkID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to remove cart item")
		return false, fmt.Errorf("service: failed to remove cart item: %w", err)
	}

	return removed, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (bool, error) {
	// Zero and negative quantities mean removal.
	if quantity <= 0 {
		return s.Remove(ctx, userID, artworkID)
	}

	updated, err := s.repo.SetQuantity(ctx, userID, artworkID, quantity)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to update cart quantity")
		return false, fmt.Errorf("service: failed to update cart quantity: %w", err)
	}

	return updated, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	removed, err := s.repo.Clear(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to clear cart")
		return 0, fmt.Errorf("service: failed to clear cart: %w", err)
	}

	return removed, nil
}

func (s *service) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to count cart")
		return 0, fmt.Errorf("service: failed to count cart: %w", err)
	}

	return count, nil
}

func (s *service) ItemQuantity(ctx context.Context, userID, artworkID uuid.UUID) (int, error) {
	quantity, err := s.repo.ItemQuantity(ctx, userID, artworkID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Stringer("artwork_id", artworkID).Msg("service: failed to get cart item quantity")
		return 0, fmt.Errorf("service: failed to get cart item quantity: %w", err)
	}

	return quantity, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDetails, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("service: failed to list cart")
		return nil, fmt.Errorf("service: failed to list cart: %w", err)
	}

	return items, nil
}
