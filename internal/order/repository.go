package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrArtworkNotFound    = errors.New("artwork not found")
	ErrArtworkUnavailable = errors.New("artwork is no longer available")
)

// ArtworkState is the slice of an artwork the order workflow needs: the
// price snapshot source and the availability gate.
type ArtworkState struct {
	ID          uuid.UUID
	ArtistID    uuid.UUID
	Price       float64
	Currency    string
	IsAvailable bool
}

type Repository interface {
	GetArtworkState(ctx context.Context, artworkID uuid.UUID) (*ArtworkState, error)
	// Create persists the order and closes the artwork availability gate
	// in a single transaction. Fails with ErrArtworkUnavailable if the
	// gate was closed by a concurrent sale.
	Create(ctx context.Context, o *Order) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*Details, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *Status) ([]Details, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, status *Status) ([]Details, error)
	// UpdateStatus patches the order status and, when reopenArtwork is
	// set, re-opens the availability gate in the same transaction.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate, reopenArtwork bool) error
	// ReconcileAvailability repairs artwork rows whose availability flag
	// contradicts the set of non-cancelled orders referencing them.
	ReconcileAvailability(ctx context.Context) (closed, reopened int64, err error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const orderColumns = `id, buyer_id, artwork_id, artist_id, status, total_amount, currency,
	ship_name, ship_street, ship_city, ship_state, ship_postal_code, ship_country,
	COALESCE(payment_intent_id, ''), COALESCE(tracking_number, ''), COALESCE(notes, ''),
	created_at, updated_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(
		&o.ID,
		&o.BuyerID,
		&o.ArtworkID,
		&o.ArtistID,
		&o.Status,
		&o.TotalAmount,
		&o.Currency,
		&o.ShippingAddress.Name,
		&o.ShippingAddress.Street,
		&o.ShippingAddress.City,
		&o.ShippingAddress.State,
		&o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country,
		&o.PaymentIntentID,
		&o.TrackingNumber,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *postgresRepository) GetArtworkState(ctx context.Context, artworkID uuid.UUID) (*ArtworkState, error) {
	query := `SELECT id, artist_id, price, currency, is_available FROM artworks WHERE id = $1`

	var state ArtworkState
	err := r.db.QueryRow(ctx, query, artworkID).Scan(
		&state.ID,
		&state.ArtistID,
		&state.Price,
		&state.Currency,
		&state.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArtworkNotFound
		}
		return nil, fmt.Errorf("repository: failed to select artwork state %s: %w", artworkID, err)
	}

	return &state, nil
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (orderID uuid.UUID, err error) {
	if o.ID == uuid.Nil {
		genID, genErr := uuid.NewV4()
		if genErr != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate order ID: %w", genErr)
		}
		o.ID = genID
	}

	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("repository: failed to rollback after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("repository: failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	now := time.Now().UTC()

	// Close the gate first. The is_available guard makes the losing side
	// of a double-sale race abort here.
	gateQuery := `UPDATE artworks SET is_available = FALSE, updated_at = $1 WHERE id = $2 AND is_available`
	cmdTag, err := tx.Exec(ctx, gateQuery, now, o.ArtworkID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to close artwork availability: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = ErrArtworkUnavailable
		return uuid.Nil, err
	}

	o.CreatedAt = now
	o.UpdatedAt = now

	insertQuery := `
		INSERT INTO orders (id, buyer_id, artwork_id, artist_id, status, total_amount, currency,
			ship_name, ship_street, ship_city, ship_state, ship_postal_code, ship_country,
			payment_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, ''), $15, $16)
	`
	_, err = tx.Exec(ctx, insertQuery,
		o.ID,
		o.BuyerID,
		o.ArtworkID,
		o.ArtistID,
		string(o.Status),
		o.TotalAmount,
		o.Currency,
		o.ShippingAddress.Name,
		o.ShippingAddress.Street,
		o.ShippingAddress.City,
		o.ShippingAddress.State,
		o.ShippingAddress.PostalCode,
		o.ShippingAddress.Country,
		o.PaymentIntentID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	return o.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o Order
	err := scanOrder(r.db.QueryRow(ctx, query, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	return &o, nil
}

const detailsQuery = `
	SELECT o.id, o.buyer_id, o.artwork_id, o.artist_id, o.status, o.total_amount, o.currency,
		o.ship_name, o.ship_street, o.ship_city, o.ship_state, o.ship_postal_code, o.ship_country,
		COALESCE(o.payment_intent_id, ''), COALESCE(o.tracking_number, ''), COALESCE(o.notes, ''),
		o.created_at, o.updated_at,
		a.id, a.title, a.primary_image_url, a.price, a.currency,
		art.id, art.name, art.email, COALESCE(art.profile_image, ''),
		b.id, b.name, b.email, COALESCE(b.profile_image, '')
	FROM orders o
	LEFT JOIN artworks a ON a.id = o.artwork_id
	LEFT JOIN users art ON art.id = o.artist_id
	LEFT JOIN users b ON b.id = o.buyer_id
`

func scanDetails(row pgx.Row) (*Details, error) {
	var (
		d       Details
		artwork ArtworkSummary
		artist  UserSummary
		buyer   UserSummary

		artworkID *uuid.UUID
		artTitle  *string
		artImage  *string
		artPrice  *float64
		artCurr   *string

		artistID    *uuid.UUID
		artistName  *string
		artistEmail *string
		artistImage *string

		buyerID    *uuid.UUID
		buyerName  *string
		buyerEmail *string
		buyerImage *string
	)

	err := row.Scan(
		&d.ID,
		&d.BuyerID,
		&d.ArtworkID,
		&d.ArtistID,
		&d.Status,
		&d.TotalAmount,
		&d.Currency,
		&d.ShippingAddress.Name,
		&d.ShippingAddress.Street,
		&d.ShippingAddress.City,
		&d.ShippingAddress.State,
		&d.ShippingAddress.PostalCode,
		&d.ShippingAddress.Country,
		&d.PaymentIntentID,
		&d.TrackingNumber,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
		&artworkID,
		&artTitle,
		&artImage,
		&artPrice,
		&artCurr,
		&artistID,
		&artistName,
		&artistEmail,
		&artistImage,
		&buyerID,
		&buyerName,
		&buyerEmail,
		&buyerImage,
	)
	if err != nil {
		return nil, err
	}

	if artworkID != nil {
		artwork = ArtworkSummary{ID: *artworkID, Title: *artTitle, PrimaryImageURL: *artImage, Price: *artPrice, Currency: *artCurr}
		d.Artwork = &artwork
	}
	if artistID != nil {
		artist = UserSummary{ID: *artistID, Name: *artistName, Email: *artistEmail, ProfileImage: *artistImage}
		d.Artist = &artist
	}
	if buyerID != nil {
		buyer = UserSummary{ID: *buyerID, Name: *buyerName, Email: *buyerEmail, ProfileImage: *buyerImage}
		d.Buyer = &buyer
	}

	return &d, nil
}

func (r *postgresRepository) GetDetails(ctx context.Context, id uuid.UUID) (*Details, error) {
	query := detailsQuery + ` WHERE o.id = $1`

	d, err := scanDetails(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order details %s: %w", id, err)
	}

	return d, nil
}

func (r *postgresRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *Status) ([]Details, error) {
	return r.listDetails(ctx, "o.buyer_id", buyerID, status)
}

func (r *postgresRepository) ListByArtist(ctx context.Context, artistID uuid.UUID, status *Status) ([]Details, error) {
	return r.listDetails(ctx, "o.artist_id", artistID, status)
}

func (r *postgresRepository) listDetails(ctx context.Context, column string, id uuid.UUID, status *Status) ([]Details, error) {
	query := detailsQuery + ` WHERE ` + column + ` = $1`
	args := []any{id}
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(" AND o.status = $%d", len(args))
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	details := make([]Details, 0)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		details = append(details, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return details, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate, reopenArtwork bool) (err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", beginErr)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", orderID).Msg("repository: failed to rollback after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", orderID).Msg("repository: failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	now := time.Now().UTC()

	query := `
		UPDATE orders
		SET status = $1,
			tracking_number = COALESCE($2, tracking_number),
			notes = COALESCE($3, notes),
			updated_at = $4
		WHERE id = $5
		RETURNING artwork_id
	`
	var artworkID uuid.UUID
	err = tx.QueryRow(ctx, query,
		string(update.Status),
		update.TrackingNumber,
		update.Notes,
		now,
		orderID,
	).Scan(&artworkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrOrderNotFound
			return err
		}
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}

	if reopenArtwork {
		_, err = tx.Exec(ctx, `UPDATE artworks SET is_available = TRUE, updated_at = $1 WHERE id = $2`, now, artworkID)
		if err != nil {
			return fmt.Errorf("repository: failed to reopen artwork %s: %w", artworkID, err)
		}
	}

	return nil
}

func (r *postgresRepository) ReconcileAvailability(ctx context.Context) (closed, reopened int64, err error) {
	closeQuery := `
		UPDATE artworks a
		SET is_available = FALSE, updated_at = NOW()
		WHERE a.is_available
			AND EXISTS (SELECT 1 FROM orders o WHERE o.artwork_id = a.id AND o.status <> 'cancelled')
	`
	closeTag, err := r.db.Exec(ctx, closeQuery)
	if err != nil {
		return 0, 0, fmt.Errorf("repository: failed to close drifted artworks: %w", err)
	}

	reopenQuery := `
		UPDATE artworks a
		SET is_available = TRUE, updated_at = NOW()
		WHERE NOT a.is_available
			AND NOT EXISTS (SELECT 1 FROM orders o WHERE o.artwork_id = a.id AND o.status <> 'cancelled')
	`
	reopenTag, err := r.db.Exec(ctx, reopenQuery)
	if err != nil {
		return closeTag.RowsAffected(), 0, fmt.Errorf("repository: failed to reopen drifted artworks: %w", err)
	}

	return closeTag.RowsAffected(), reopenTag.RowsAffected(), nil
}
