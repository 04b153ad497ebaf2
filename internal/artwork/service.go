package artwork

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultListLimit     = 12
	defaultFeaturedLimit = 8
	defaultSearchLimit   = 20
)

type Service interface {
	CreateArtwork(ctx context.Context, a *Artwork) (*Artwork, error)
	GetArtwork(ctx context.Context, id uuid.UUID) (*ArtworkWithArtist, error)
	ListArtworks(ctx context.Context, filter Filter) ([]ArtworkWithArtist, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, isAvailable *bool) ([]Artwork, error)
	FeaturedArtworks(ctx context.Context, limit int) ([]ArtworkWithArtist, error)
	SearchArtworks(ctx context.Context, term string, category *Category, limit int) ([]ArtworkWithArtist, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateArtwork(ctx context.Context, a *Artwork) (*Artwork, error) {
	if a.Title == "" {
		return nil, errors.New("service: artwork title cannot be empty")
	}
	if a.ArtistID == uuid.Nil {
		return nil, errors.New("service: artwork artist id cannot be nil")
	}
	if a.Price < 0 {
		return nil, errors.New("service: artwork price cannot be negative")
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}

	// New listings go up for sale immediately.
	a.IsAvailable = true

	if _, err := s.repo.Create(ctx, a); err != nil {
		log.Error().Err(err).Msg("service: failed to create artwork")
		return nil, fmt.Errorf("service: failed to create artwork: %w", err)
	}

	log.Info().Stringer("artwork_id", a.ID).Stringer("artist_id", a.ArtistID).Msg("service: artwork created")

	return a, nil
}

func (s *service) GetArtwork(ctx context.Context, id uuid.UUID) (*ArtworkWithArtist, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("artwork_id", id).Msg("service: failed to fetch artwork")
		return nil, fmt.Errorf("service: failed to fetch artwork: %w", err)
	}

	return item, nil
}

func (s *service) ListArtworks(ctx context.Context, filter Filter) ([]ArtworkWithArtist, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list artworks")
		return nil, fmt.Errorf("service: failed to list artworks: %w", err)
	}

	return items, nil
}

func (s *service) ListByArtist(ctx context.Context, artistID uuid.UUID, isAvailable *bool) ([]Artwork, error) {
	items, err := s.repo.ListByArtist(ctx, artistID, isAvailable)
	if err != nil {
		log.Error().Err(err).Stringer("artist_id", artistID).Msg("service: failed to list artist artworks")
		return nil, fmt.Errorf("service: failed to list artist artworks: %w", err)
	}

	return items, nil
}

func (s *service) FeaturedArtworks(ctx context.Context, limit int) ([]ArtworkWithArtist, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}

	items, err := s.repo.ListFeatured(ctx, limit)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list featured artworks")
		return nil, fmt.Errorf("service: failed to list featured artworks: %w", err)
	}

	return items, nil
}

func (s *service) SearchArtworks(ctx context.Context, term string, category *Category, limit int) ([]ArtworkWithArtist, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	items, err := s.repo.Search(ctx, term, category, limit)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("service: failed to search artworks")
		return nil, fmt.Errorf("service: failed to search artworks: %w", err)
	}

	return items, nil
}
