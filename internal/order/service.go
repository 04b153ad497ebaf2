package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// allowedTransitions encodes the order lifecycle. Forward moves may skip
// intermediate states (a seller can mark a confirmed order delivered
// without a shipped step); cancelled is reachable from every non-terminal
// state; delivered and cancelled are terminal.
var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusShipped:   true,
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusShipped:   true,
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusShipped: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidStatus     = errors.New("unknown order status")
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateInput) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate) error
	GetOrder(ctx context.Context, id uuid.UUID) (*Details, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, status *Status) ([]Details, error)
	ListArtistOrders(ctx context.Context, artistID uuid.UUID, status *Status) ([]Details, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateOrder(ctx context.Context, input CreateInput) (*Order, error) {
	artwork, err := s.repo.GetArtworkState(ctx, input.ArtworkID)
	if err != nil {
		if errors.Is(err, ErrArtworkNotFound) {
			log.Warn().Stringer("artwork_id", input.ArtworkID).Msg("service: attempt to order unknown artwork")
			return nil, ErrArtworkNotFound
		}
		log.Error().Err(err).Stringer("artwork_id", input.ArtworkID).Msg("service: failed to fetch artwork for order")
		return nil, fmt.Errorf("service: failed to fetch artwork for order: %w", err)
	}

	if !artwork.IsAvailable {
		log.Warn().Stringer("artwork_id", input.ArtworkID).Msg("service: attempt to order unavailable artwork")
		return nil, ErrArtworkUnavailable
	}

	o := &Order{
		BuyerID:         input.BuyerID,
		ArtworkID:       input.ArtworkID,
		ArtistID:        artwork.ArtistID,
		Status:          StatusPending,
		TotalAmount:     artwork.Price,
		Currency:        artwork.Currency,
		ShippingAddress: input.ShippingAddress,
		PaymentIntentID: input.PaymentIntentID,
	}

	if _, err := s.repo.Create(ctx, o); err != nil {
		if errors.Is(err, ErrArtworkUnavailable) {
			// Lost the race against another buyer.
			log.Warn().Stringer("artwork_id", input.ArtworkID).Msg("service: artwork sold during order creation")
			return nil, ErrArtworkUnavailable
		}
		log.Error().Err(err).Msg("service: failed to create order in repository")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().
		Stringer("order_id", o.ID).
		Stringer("buyer_id", o.BuyerID).
		Stringer("artwork_id", o.ArtworkID).
		Msg("service: order created")

	return o, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate) error {
	if !update.Status.Valid() {
		return ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn().Stringer("order_id", orderID).Stringer("new_status", update.Status).Msg("service: order not found, cannot update status")
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to get order for status update")
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status == update.Status {
		log.Info().Stringer("order_id", orderID).Stringer("status", update.Status).Msg("service: order status already set, no update needed")
		return nil
	}

	if !allowedTransitions[current.Status][update.Status] {
		log.Warn().
			Stringer("order_id", orderID).
			Stringer("current_status", current.Status).
			Stringer("new_status", update.Status).
			Msg("service: invalid status transition attempt")
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, update.Status)
	}

	// The gate reopens only on the first transition into cancelled; the
	// prior-status check keeps a repeated cancel from re-opening an
	// artwork someone else has since bought.
	reopenArtwork := update.Status == StatusCancelled && current.Status != StatusCancelled

	if err := s.repo.UpdateStatus(ctx, orderID, update, reopenArtwork); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("new_status", update.Status).Msg("service: failed to update order status")
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	log.Info().
		Stringer("order_id", orderID).
		Stringer("old_status", current.Status).
		Stringer("new_status", update.Status).
		Bool("artwork_reopened", reopenArtwork).
		Msg("service: order status updated")

	return nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*Details, error) {
	details, err := s.repo.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order details")
		return nil, fmt.Errorf("service: failed to fetch order details: %w", err)
	}

	return details, nil
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, status *Status) ([]Details, error) {
	orders, err := s.repo.ListByBuyer(ctx, buyerID, status)
	if err != nil {
		log.Error().Err(err).Stringer("buyer_id", buyerID).Msg("service: failed to list buyer orders")
		return nil, fmt.Errorf("service: failed to list buyer orders: %w", err)
	}

	return orders, nil
}

func (s *service) ListArtistOrders(ctx context.Context, artistID uuid.UUID, status *Status) ([]Details, error) {
	orders, err := s.repo.ListByArtist(ctx, artistID, status)
	if err != nil {
		log.Error().Err(err).Stringer("artist_id", artistID).Msg("service: failed to list artist orders")
		return nil, fmt.Errorf("service: failed to list artist orders: %w", err)
	}

	return orders, nil
}
