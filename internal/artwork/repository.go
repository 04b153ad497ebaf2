package artwork

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("artwork not found")
	ErrUnavailable = errors.New("artwork is not available")
)

type Repository interface {
	Create(ctx context.Context, a *Artwork) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ArtworkWithArtist, error)
	List(ctx context.Context, filter Filter) ([]ArtworkWithArtist, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID, isAvailable *bool) ([]Artwork, error)
	ListFeatured(ctx context.Context, limit int) ([]ArtworkWithArtist, error)
	Search(ctx context.Context, term string, category *Category, limit int) ([]ArtworkWithArtist, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const artworkColumns = `a.id, a.title, a.description, a.artist_id, a.category, a.medium,
	a.width, a.height, a.depth, a.dimension_unit, a.price, a.currency,
	a.primary_image_url, a.tags, a.is_available, a.is_featured, a.year_created,
	a.created_at, a.updated_at`

const artistSummaryColumns = `u.id, u.name, COALESCE(u.profile_image, ''), u.is_verified`

func scanArtworkWithArtist(rows pgx.Row) (*ArtworkWithArtist, error) {
	var (
		item   ArtworkWithArtist
		artist ArtistSummary
	)
	err := rows.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.ArtistID,
		&item.Category,
		&item.Medium,
		&item.Dimensions.Width,
		&item.Dimensions.Height,
		&item.Dimensions.Depth,
		&item.Dimensions.Unit,
		&item.Price,
		&item.Currency,
		&item.PrimaryImageURL,
		&item.Tags,
		&item.IsAvailable,
		&item.IsFeatured,
		&item.YearCreated,
		&item.CreatedAt,
		&item.UpdatedAt,
		&artist.ID,
		&artist.Name,
		&artist.ProfileImage,
		&artist.IsVerified,
	)
	if err != nil {
		return nil, err
	}
	item.Artist = &artist
	return &item, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *Artwork) (uuid.UUID, error) {
	if a.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate artwork ID: %w", err)
		}
		a.ID = id
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO artworks (id, title, description, artist_id, category, medium,
			width, height, depth, dimension_unit, price, currency,
			primary_image_url, tags, is_available, is_featured, year_created,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.Title,
		a.Description,
		a.ArtistID,
		string(a.Category),
		a.Medium,
		a.Dimensions.Width,
		a.Dimensions.Height,
		a.Dimensions.Depth,
		a.Dimensions.Unit,
		a.Price,
		a.Currency,
		a.PrimaryImageURL,
		a.Tags,
		a.IsAvailable,
		a.IsFeatured,
		a.YearCreated,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert artwork: %w", err)
	}

	return a.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*ArtworkWithArtist, error) {
	query := `
		SELECT ` + artworkColumns + `, ` + artistSummaryColumns + `
		FROM artworks a
		JOIN users u ON u.id = a.artist_id
		WHERE a.id = $1
	`

	item, err := scanArtworkWithArtist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select artwork by id %s: %w", id, err)
	}

	return item, nil
}

// List applies the filter criteria left-to-right, each one contributing a
// single predicate to the WHERE clause.
func (r *postgresRepository) List(ctx context.Context, filter Filter) ([]ArtworkWithArtist, error) {
	clauses := make([]string, 0, 5)
	args := make([]any, 0, 7)

	addClause := func(format string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if filter.Category != nil {
		addClause("a.category = $%d", string(*filter.Category))
	}
	if filter.IsAvailable != nil {
		addClause("a.is_available = $%d", *filter.IsAvailable)
	}
	if filter.IsFeatured != nil {
		addClause("a.is_featured = $%d", *filter.IsFeatured)
	}
	if filter.MinPrice != nil {
		addClause("a.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addClause("a.price <= $%d", *filter.MaxPrice)
	}

	query := `
		SELECT ` + artworkColumns + `, ` + artistSummaryColumns + `
		FROM artworks a
		JOIN users u ON u.id = a.artist_id
	`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.queryArtworks(ctx, query, args...)
}

func (r *postgresRepository) ListByArtist(ctx context.Context, artistID uuid.UUID, isAvailable *bool) ([]Artwork, error) {
	query := `
		SELECT ` + artworkColumns + `
		FROM artworks a
		WHERE a.artist_id = $1
	`
	args := []any{artistID}
	if isAvailable != nil {
		args = append(args, *isAvailable)
		query += fmt.Sprintf(" AND a.is_available = $%d", len(args))
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query artworks for artist %s: %w", artistID, err)
	}
	defer rows.Close()

	artworks := make([]Artwork, 0)
	for rows.Next() {
		var a Artwork
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.ArtistID,
			&a.Category,
			&a.Medium,
			&a.Dimensions.Width,
			&a.Dimensions.Height,
			&a.Dimensions.Depth,
			&a.Dimensions.Unit,
			&a.Price,
			&a.Currency,
			&a.PrimaryImageURL,
			&a.Tags,
			&a.IsAvailable,
			&a.IsFeatured,
			&a.YearCreated,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan artwork for artist %s: %w", artistID, err)
		}
		artworks = append(artworks, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating artworks for artist %s: %w", artistID, err)
	}

	return artworks, nil
}

func (r *postgresRepository) ListFeatured(ctx context.Context, limit int) ([]ArtworkWithArtist, error) {
	query := `
		SELECT ` + artworkColumns + `, ` + artistSummaryColumns + `
		FROM artworks a
		JOIN users u ON u.id = a.artist_id
		WHERE a.is_featured AND a.is_available
		ORDER BY a.created_at DESC
		LIMIT $1
	`
	return r.queryArtworks(ctx, query, limit)
}

func (r *postgresRepository) Search(ctx context.Context, term string, category *Category, limit int) ([]ArtworkWithArtist, error) {
	query := `
		SELECT ` + artworkColumns + `, ` + artistSummaryColumns + `
		FROM artworks a
		JOIN users u ON u.id = a.artist_id
		WHERE a.is_available
			AND (a.title ILIKE $1 OR a.description ILIKE $1
				OR EXISTS (SELECT 1 FROM unnest(a.tags) tag WHERE tag ILIKE $1))
	`
	args := []any{"%" + term + "%"}
	if category != nil {
		args = append(args, string(*category))
		query += fmt.Sprintf(" AND a.category = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d", len(args))

	return r.queryArtworks(ctx, query, args...)
}

func (r *postgresRepository) queryArtworks(ctx context.Context, query string, args ...any) ([]ArtworkWithArtist, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query artworks: %w", err)
	}
	defer rows.Close()

	items := make([]ArtworkWithArtist, 0)
	for rows.Next() {
		item, err := scanArtworkWithArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan artwork: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating artworks: %w", err)
	}

	return items, nil
}
