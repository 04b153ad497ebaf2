package favorite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artvista/marketplace/internal/artwork"
)

var (
	ErrNotFound      = errors.New("artwork is not in favorites")
	ErrAlreadyExists = errors.New("artwork is already in favorites")
)

type Repository interface {
	Get(ctx context.Context, userID, artworkID uuid.UUID) (*Favorite, error)
	Insert(ctx context.Context, userID, artworkID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, userID, artworkID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]FavoriteDetails, error)
	CountByArtwork(ctx context.Context, artworkID uuid.UUID) (int64, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context, userID, artworkID uuid.UUID) (*Favorite, error) {
	query := `SELECT id, user_id, artwork_id, created_at FROM favorites WHERE user_id = $1 AND artwork_id = $2`

	var f Favorite
	err := r.db.QueryRow(ctx, query, userID, artworkID).Scan(&f.ID, &f.UserID, &f.ArtworkID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select favorite: %w", err)
	}

	return &f, nil
}

func (r *postgresRepository) Insert(ctx context.Context, userID, artworkID uuid.UUID) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to generate favorite ID: %w", err)
	}

	query := `
		INSERT INTO favorites (id, user_id, artwork_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, artwork_id) DO NOTHING
		RETURNING id
	`
	var favoriteID uuid.UUID
	err = r.db.QueryRow(ctx, query, id, userID, artworkID, time.Now().UTC()).Scan(&favoriteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrAlreadyExists
		}
		return uuid.Nil, fmt.Errorf("repository: failed to insert favorite: %w", err)
	}

	return favoriteID, nil
}

func (r *postgresRepository) Delete(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	query := `DELETE FROM favorites WHERE user_id = $1 AND artwork_id = $2`

	cmdTag, err := r.db.Exec(ctx, query, userID, artworkID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to delete favorite: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]FavoriteDetails, error) {
	query := `
		SELECT f.id, f.user_id, f.artwork_id, f.created_at,
			a.id, a.title, a.description, a.artist_id, a.category, a.medium,
			a.width, a.height, a.depth, a.dimension_unit, a.price, a.currency,
			a.primary_image_url, a.tags, a.is_available, a.is_featured, a.year_created,
			a.created_at, a.updated_at,
			u.id, u.name, COALESCE(u.profile_image, ''), u.is_verified
		FROM favorites f
		JOIN artworks a ON a.id = f.artwork_id
		JOIN users u ON u.id = a.artist_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	favorites := make([]FavoriteDetails, 0)
	for rows.Next() {
		var (
			f      FavoriteDetails
			artist artwork.ArtistSummary
		)
		err := rows.Scan(
			&f.ID,
			&f.UserID,
			&f.ArtworkID,
			&f.CreatedAt,
			&f.Artwork.ID,
			&f.Artwork.Title,
			&f.Artwork.Description,
			&f.Artwork.ArtistID,
			&f.Artwork.Category,
			&f.Artwork.Medium,
			&f.Artwork.Dimensions.Width,
			&f.Artwork.Dimensions.Height,
			&f.Artwork.Dimensions.Depth,
			&f.Artwork.Dimensions.Unit,
			&f.Artwork.Price,
			&f.Artwork.Currency,
			&f.Artwork.PrimaryImageURL,
			&f.Artwork.Tags,
			&f.Artwork.IsAvailable,
			&f.Artwork.IsFeatured,
			&f.Artwork.YearCreated,
			&f.Artwork.CreatedAt,
			&f.Artwork.UpdatedAt,
			&artist.ID,
			&artist.Name,
			&artist.ProfileImage,
			&artist.IsVerified,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan favorite: %w", err)
		}
		f.Artwork.Artist = &artist
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating favorites: %w", err)
	}

	return favorites, nil
}

func (r *postgresRepository) CountByArtwork(ctx context.Context, artworkID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM favorites WHERE artwork_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, artworkID).Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count favorites for artwork %s: %w", artworkID, err)
	}

	return count, nil
}
