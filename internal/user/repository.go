package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, u *User) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Update(ctx context.Context, u *User) error
	ListArtists(ctx context.Context, limit int, verifiedOnly *bool) ([]Artist, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, COALESCE(external_id, ''), email, name, COALESCE(role, ''),
	COALESCE(profile_image, ''), COALESCE(bio, ''), COALESCE(location, ''),
	COALESCE(website, ''), is_verified, created_at, updated_at`

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(
		&u.ID,
		&u.ExternalID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.ProfileImage,
		&u.Bio,
		&u.Location,
		&u.Website,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, u *User) (uuid.UUID, error) {
	if u.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate user ID: %w", err)
		}
		u.ID = id
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (id, external_id, email, name, role, profile_image, bio, location, website, is_verified, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.ExternalID,
		u.Email,
		u.Name,
		string(u.Role),
		u.ProfileImage,
		u.Bio,
		u.Location,
		u.Website,
		u.IsVerified,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	return u.ID, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := scanUser(r.db.QueryRow(ctx, query, id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by id %s: %w", id, err)
	}

	return &u, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	err := scanUser(r.db.QueryRow(ctx, query, email), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by email %s: %w", email, err)
	}

	return &u, nil
}

func (r *postgresRepository) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`

	var u User
	err := scanUser(r.db.QueryRow(ctx, query, externalID), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by external id %s: %w", externalID, err)
	}

	return &u, nil
}

func (r *postgresRepository) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET email = $1, name = $2, role = NULLIF($3, ''), profile_image = NULLIF($4, ''),
			bio = NULLIF($5, ''), location = NULLIF($6, ''), website = NULLIF($7, ''),
			is_verified = $8, updated_at = $9
		WHERE id = $10
	`
	cmdTag, err := r.db.Exec(ctx, query,
		u.Email,
		u.Name,
		string(u.Role),
		u.ProfileImage,
		u.Bio,
		u.Location,
		u.Website,
		u.IsVerified,
		time.Now().UTC(),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update user %s: %w", u.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) ListArtists(ctx context.Context, limit int, verifiedOnly *bool) ([]Artist, error) {
	query := `
		SELECT ` + userColumns + `,
			(SELECT COUNT(*) FROM artworks a WHERE a.artist_id = users.id AND a.is_available) AS artwork_count
		FROM users
		WHERE role = 'artist'
	`
	args := []any{}
	if verifiedOnly != nil {
		args = append(args, *verifiedOnly)
		query += fmt.Sprintf(" AND is_verified = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := make([]Artist, 0)
	for rows.Next() {
		var a Artist
		err := rows.Scan(
			&a.ID,
			&a.ExternalID,
			&a.Email,
			&a.Name,
			&a.Role,
			&a.ProfileImage,
			&a.Bio,
			&a.Location,
			&a.Website,
			&a.IsVerified,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.ArtworkCount,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating artists: %w", err)
	}

	return artists, nil
}
