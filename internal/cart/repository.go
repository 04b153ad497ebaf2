package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artvista/marketplace/internal/artwork"
)

type Repository interface {
	// Upsert inserts a cart row or, when one already exists for the
	// (user, artwork) pair, increments its quantity. Returns the row ID.
	Upsert(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (uuid.UUID, error)
	SetQuantity(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (bool, error)
	Delete(ctx context.Context, userID, artworkID uuid.UUID) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	ItemQuantity(ctx context.Context, userID, artworkID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ItemDetails, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to generate cart item ID: %w", err)
	}

	query := `
		INSERT INTO cart_items (id, user_id, artwork_id, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, artwork_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id
	`
	var itemID uuid.UUID
	err = r.db.QueryRow(ctx, query, id, userID, artworkID, quantity, time.Now().UTC()).Scan(&itemID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to upsert cart item: %w", err)
	}

	return itemID, nil
}

func (r *postgresRepository) SetQuantity(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (bool, error) {
	query := `UPDATE cart_items SET quantity = $1 WHERE user_id = $2 AND artwork_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, quantity, userID, artworkID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to update cart quantity: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Delete(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND artwork_id = $2`

	cmdTag, err := r.db.Exec(ctx, query, userID, artworkID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to delete cart item: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to clear cart for user %s: %w", userID, err)
	}

	return cmdTag.RowsAffected(), nil
}

func (r *postgresRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count cart for user %s: %w", userID, err)
	}

	return count, nil
}

func (r *postgresRepository) ItemQuantity(ctx context.Context, userID, artworkID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1 AND artwork_id = $2`

	var quantity int
	if err := r.db.QueryRow(ctx, query, userID, artworkID).Scan(&quantity); err != nil {
		return 0, fmt.Errorf("repository: failed to get cart item quantity: %w", err)
	}

	return quantity, nil
}

// ListByUser joins cart rows with artworks and artists. The inner join
// silently drops entries whose artwork row is gone.
func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]ItemDetails, error) {
	query := `
		SELECT c.id, c.user_id, c.artwork_id, c.quantity, c.added_at,
			a.id, a.title, a.description, a.artist_id, a.category, a.medium,
			a.width, a.height, a.depth, a.dimension_unit, a.price, a.currency,
			a.primary_image_url, a.tags, a.is_available, a.is_featured, a.year_created,
			a.created_at, a.updated_at,
			u.id, u.name, COALESCE(u.profile_image, ''), u.is_verified
		FROM cart_items c
		JOIN artworks a ON a.id = c.artwork_id
		JOIN users u ON u.id = a.artist_id
		WHERE c.user_id = $1
		ORDER BY c.added_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart for user %s: %w", userID, err)
	}
	defer rows.Close()

	items := make([]ItemDetails, 0)
	for rows.Next() {
		var (
			item   ItemDetails
			artist artwork.ArtistSummary
		)
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ArtworkID,
			&item.Quantity,
			&item.AddedAt,
			&item.Artwork.ID,
			&item.Artwork.Title,
			&item.Artwork.Description,
			&item.Artwork.ArtistID,
			&item.Artwork.Category,
			&item.Artwork.Medium,
			&item.Artwork.Dimensions.Width,
			&item.Artwork.Dimensions.Height,
			&item.Artwork.Dimensions.Depth,
			&item.Artwork.Dimensions.Unit,
			&item.Artwork.Price,
			&item.Artwork.Currency,
			&item.Artwork.PrimaryImageURL,
			&item.Artwork.Tags,
			&item.Artwork.IsAvailable,
			&item.Artwork.IsFeatured,
			&item.Artwork.YearCreated,
			&item.Artwork.CreatedAt,
			&item.Artwork.UpdatedAt,
			&artist.ID,
			&artist.Name,
			&artist.ProfileImage,
			&artist.IsVerified,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart item: %w", err)
		}
		item.Artwork.Artist = &artist
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating cart items: %w", err)
	}

	return items, nil
}
