package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artvista/marketplace/internal/artwork"
)

var (
	ErrNotFound            = errors.New("collection not found")
	ErrArtworkAlreadyAdded = errors.New("artwork is already in this collection")
)

const previewSize = 4

type Repository interface {
	Create(ctx context.Context, c *Collection) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Details, error)
	ListByUser(ctx context.Context, userID uuid.UUID, isPublic *bool) ([]Summary, error)
	ListPublic(ctx context.Context, limit int) ([]Summary, error)
	Update(ctx context.Context, id uuid.UUID, update Update) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddArtwork appends the artwork at the end of the list.
	AddArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) error
	RemoveArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) (bool, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, c *Collection) (uuid.UUID, error) {
	if c.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate collection ID: %w", err)
		}
		c.ID = id
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO collections (id, user_id, name, description, is_public, cover_image, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Description,
		c.IsPublic,
		c.CoverImage,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert collection: %w", err)
	}

	return c.ID, nil
}

const collectionColumns = `c.id, c.user_id, c.name, COALESCE(c.description, ''), c.is_public,
	COALESCE(c.cover_image, ''), c.created_at, c.updated_at`

func scanCollection(row pgx.Row, c *Collection) error {
	return row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Description,
		&c.IsPublic,
		&c.CoverImage,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Details, error) {
	query := `
		SELECT ` + collectionColumns + `, u.id, u.name, COALESCE(u.profile_image, ''), COALESCE(u.bio, '')
		FROM collections c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	var (
		d     Details
		owner OwnerSummary
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Description,
		&d.IsPublic,
		&d.CoverImage,
		&d.CreatedAt,
		&d.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.ProfileImage,
		&owner.Bio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select collection %s: %w", id, err)
	}
	d.Owner = &owner

	artworksQuery := `
		SELECT a.id, a.title, a.description, a.artist_id, a.category, a.medium,
			a.width, a.height, a.depth, a.dimension_unit, a.price, a.currency,
			a.primary_image_url, a.tags, a.is_available, a.is_featured, a.year_created,
			a.created_at, a.updated_at,
			u.id, u.name, COALESCE(u.profile_image, ''), u.is_verified
		FROM collection_artworks ca
		JOIN artworks a ON a.id = ca.artwork_id
		JOIN users u ON u.id = a.artist_id
		WHERE ca.collection_id = $1
		ORDER BY ca.position
	`

	rows, err := r.db.Query(ctx, artworksQuery, id)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query collection artworks %s: %w", id, err)
	}
	defer rows.Close()

	artworks := make([]artwork.ArtworkWithArtist, 0)
	for rows.Next() {
		var (
			item   artwork.ArtworkWithArtist
			artist artwork.ArtistSummary
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
			return nil, fmt.Errorf("repository: failed to scan collection artwork: %w", err)
		}
		item.Artist = &artist
		artworks = append(artworks, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating collection artworks: %w", err)
	}

	d.Artworks = artworks
	return &d, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, isPublic *bool) ([]Summary, error) {
	query := `
		SELECT ` + collectionColumns + `
		FROM collections c
		WHERE c.user_id = $1
	`
	args := []any{userID}
	if isPublic != nil {
		args = append(args, *isPublic)
		query += fmt.Sprintf(" AND c.is_public = $%d", len(args))
	}
	query += " ORDER BY c.created_at DESC"

	return r.querySummaries(ctx, query, false, args...)
}

func (r *postgresRepository) ListPublic(ctx context.Context, limit int) ([]Summary, error) {
	query := `
		SELECT ` + collectionColumns + `, u.id, u.name, COALESCE(u.profile_image, ''), COALESCE(u.bio, '')
		FROM collections c
		JOIN users u ON u.id = c.user_id
		WHERE c.is_public
		ORDER BY c.created_at DESC
		LIMIT $1
	`
	return r.querySummaries(ctx, query, true, limit)
}

func (r *postgresRepository) querySummaries(ctx context.Context, query string, withOwner bool, args ...any) ([]Summary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query collections: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if withOwner {
			var owner OwnerSummary
			err = rows.Scan(
				&s.ID, &s.UserID, &s.Name, &s.Description, &s.IsPublic,
				&s.CoverImage, &s.CreatedAt, &s.UpdatedAt,
				&owner.ID, &owner.Name, &owner.ProfileImage, &owner.Bio,
			)
			s.Owner = &owner
		} else {
			err = scanCollection(rows, &s.Collection)
		}
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan collection: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating collections: %w", err)
	}

	for i := range summaries {
		if err := r.fillPreview(ctx, &summaries[i]); err != nil {
			return nil, err
		}
	}

	return summaries, nil
}

func (r *postgresRepository) fillPreview(ctx context.Context, s *Summary) error {
	countQuery := `SELECT COUNT(*) FROM collection_artworks WHERE collection_id = $1`
	if err := r.db.QueryRow(ctx, countQuery, s.ID).Scan(&s.ArtworkCount); err != nil {
		return fmt.Errorf("repository: failed to count collection artworks %s: %w", s.ID, err)
	}

	previewQuery := `
		SELECT a.id, a.title, a.primary_image_url
		FROM collection_artworks ca
		JOIN artworks a ON a.id = ca.artwork_id
		WHERE ca.collection_id = $1
		ORDER BY ca.position
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, previewQuery, s.ID, previewSize)
	if err != nil {
		return fmt.Errorf("repository: failed to query collection preview %s: %w", s.ID, err)
	}
	defer rows.Close()

	previews := make([]PreviewArtwork, 0, previewSize)
	for rows.Next() {
		var p PreviewArtwork
		if err := rows.Scan(&p.ID, &p.Title, &p.PrimaryImageURL); err != nil {
			return fmt.Errorf("repository: failed to scan collection preview: %w", err)
		}
		previews = append(previews, p)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository: error iterating collection preview: %w", err)
	}

	s.PreviewArtworks = previews
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, update Update) error {
	query := `
		UPDATE collections
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			is_public = COALESCE($3, is_public),
			cover_image = COALESCE($4, cover_image),
			updated_at = $5
		WHERE id = $6
	`
	cmdTag, err := r.db.Exec(ctx, query,
		update.Name,
		update.Description,
		update.IsPublic,
		update.CoverImage,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update collection %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete collection %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) AddArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) error {
	query := `
		INSERT INTO collection_artworks (collection_id, artwork_id, position)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
		FROM collection_artworks
		WHERE collection_id = $1
		ON CONFLICT (collection_id, artwork_id) DO NOTHING
	`
	cmdTag, err := r.db.Exec(ctx, query, collectionID, artworkID)
	if err != nil {
		// The collection_id foreign key is the only one on the table, so a
		// violation means the collection does not exist.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrNotFound
		}
		return fmt.Errorf("repository: failed to add artwork to collection %s: %w", collectionID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrArtworkAlreadyAdded
	}

	touchQuery := `UPDATE collections SET updated_at = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, touchQuery, time.Now().UTC(), collectionID); err != nil {
		return fmt.Errorf("repository: failed to touch collection %s: %w", collectionID, err)
	}

	return nil
}

func (r *postgresRepository) RemoveArtwork(ctx context.Context, collectionID, artworkID uuid.UUID) (bool, error) {
	query := `DELETE FROM collection_artworks WHERE collection_id = $1 AND artwork_id = $2`

	cmdTag, err := r.db.Exec(ctx, query, collectionID, artworkID)
	if err != nil {
		return false, fmt.Errorf("repository: failed to remove artwork from collection %s: %w", collectionID, err)
	}

	if cmdTag.RowsAffected() > 0 {
		touchQuery := `UPDATE collections SET updated_at = $1 WHERE id = $2`
		if _, err := r.db.Exec(ctx, touchQuery, time.Now().UTC(), collectionID); err != nil {
			return true, fmt.Errorf("repository: failed to touch collection %s: %w", collectionID, err)
		}
	}

	return cmdTag.RowsAffected() > 0, nil
}
