package promo

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

var ErrNotFound = errors.New("promo code not found")

type Repository interface {
	Create(ctx context.Context, p *PromoCode) (uuid.UUID, error)
	// GetActiveByCode matches the upper-cased code against active codes only.
	GetActiveByCode(ctx context.Context, code string) (*PromoCode, error)
	ListActive(ctx context.Context) ([]PromoCode, error)
	IncrementUsage(ctx context.Context, code string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const promoColumns = `id, code, discount_type, discount_value, min_order_amount, max_uses,
	used_count, expires_at, COALESCE(description, ''), is_active, created_at`

func scanPromo(row pgx.Row, p *PromoCode) error {
	return row.Scan(
		&p.ID,
		&p.Code,
		&p.DiscountType,
		&p.DiscountValue,
		&p.MinOrderAmount,
		&p.MaxUses,
		&p.UsedCount,
		&p.ExpiresAt,
		&p.Description,
		&p.IsActive,
		&p.CreatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, p *PromoCode) (uuid.UUID, error) {
	if p.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, fmt.Errorf("repository: failed to generate promo code ID: %w", err)
		}
		p.ID = id
	}

	p.Code = strings.ToUpper(p.Code)
	p.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO promo_codes (id, code, discount_type, discount_value, min_order_amount,
			max_uses, used_count, expires_at, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Code,
		string(p.DiscountType),
		p.DiscountValue,
		p.MinOrderAmount,
		p.MaxUses,
		p.UsedCount,
		p.ExpiresAt,
		p.Description,
		p.IsActive,
		p.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repository: failed to insert promo code: %w", err)
	}

	return p.ID, nil
}

func (r *postgresRepository) GetActiveByCode(ctx context.Context, code string) (*PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1 AND is_active`

	var p PromoCode
	err := scanPromo(r.db.QueryRow(ctx, query, strings.ToUpper(code)), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select promo code: %w", err)
	}

	return &p, nil
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE is_active ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query active promo codes: %w", err)
	}
	defer rows.Close()

	codes := make([]PromoCode, 0)
	for rows.Next() {
		var p PromoCode
		if err := scanPromo(rows, &p); err != nil {
			return nil, fmt.Errorf("repository: failed to scan promo code: %w", err)
		}
		codes = append(codes, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating promo codes: %w", err)
	}

	return codes, nil
}

func (r *postgresRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `UPDATE promo_codes SET used_count = used_count + 1 WHERE code = $1 AND is_active`

	cmdTag, err := r.db.Exec(ctx, query, strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("repository: failed to increment promo code usage: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE promo_codes SET is_active = FALSE WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("repository: failed to deactivate promo code %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
