package order_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/artvista/marketplace/internal/artwork"
	"github.com/artvista/marketplace/internal/order"
	"github.com/artvista/marketplace/internal/user"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL. The
// schema must already be migrated. Without the variable the integration
// tests are skipped.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL is not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	t.Cleanup(pool.Close)

	return pool
}

func createTestListing(t *testing.T, pool *pgxpool.Pool) (buyerID, artistID, artworkID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	userRepo := user.NewRepository(pool)
	artworkRepo := artwork.NewRepository(pool)

	buyer := &user.User{ExternalID: "test|" + uuid.Must(uuid.NewV4()).String(), Name: "Test Buyer"}
	_, err := userRepo.Create(ctx, buyer)
	require.NoError(t, err)

	artist := &user.User{ExternalID: "test|" + uuid.Must(uuid.NewV4()).String(), Name: "Test Artist", Role: user.RoleArtist}
	_, err = userRepo.Create(ctx, artist)
	require.NoError(t, err)

	listing := &artwork.Artwork{
		Title:       "Integration Canvas",
		ArtistID:    artist.ID,
		Category:    artwork.CategoryPainting,
		Price:       900,
		Currency:    "USD",
		IsAvailable: true,
		Dimensions:  artwork.Dimensions{Width: 50, Height: 70, Unit: "cm"},
	}
	_, err = artworkRepo.Create(ctx, listing)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM orders WHERE artwork_id = $1`, listing.ID)
		_, _ = pool.Exec(ctx, `DELETE FROM artworks WHERE id = $1`, listing.ID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id IN ($1, $2)`, buyer.ID, artist.ID)
	})

	return buyer.ID, artist.ID, listing.ID
}

func newTestOrder(buyerID, artistID, artworkID uuid.UUID) *order.Order {
	return &order.Order{
		BuyerID:     buyerID,
		ArtworkID:   artworkID,
		ArtistID:    artistID,
		Status:      order.StatusPending,
		TotalAmount: 900,
		Currency:    "USD",
		ShippingAddress: order.ShippingAddress{
			Name:       "Test Buyer",
			Street:     "1 Gallery Lane",
			City:       "Lisbon",
			PostalCode: "1000-001",
			Country:    "PT",
		},
	}
}

func TestOrderRepository_Create_ClosesAvailabilityGate(t *testing.T) {
	pool := setupTestDB(t)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	buyerID, artistID, artworkID := createTestListing(t, pool)

	_, err := repo.Create(ctx, newTestOrder(buyerID, artistID, artworkID))
	require.NoError(t, err)

	state, err := repo.GetArtworkState(ctx, artworkID)
	require.NoError(t, err)
	require.False(t, state.IsAvailable)

	// A second buyer must lose the race.
	_, err = repo.Create(ctx, newTestOrder(buyerID, artistID, artworkID))
	require.ErrorIs(t, err, order.ErrArtworkUnavailable)

	var orderCount int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE artwork_id = $1`, artworkID).Scan(&orderCount)
	require.NoError(t, err)
	require.Equal(t, 1, orderCount)
}

func TestOrderRepository_UpdateStatus_CancelReopensGate(t *testing.T) {
	pool := setupTestDB(t)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	buyerID, artistID, artworkID := createTestListing(t, pool)

	o := newTestOrder(buyerID, artistID, artworkID)
	orderID, err := repo.Create(ctx, o)
	require.NoError(t, err)

	err = repo.UpdateStatus(ctx, orderID, order.StatusUpdate{Status: order.StatusCancelled}, true)
	require.NoError(t, err)

	state, err := repo.GetArtworkState(ctx, artworkID)
	require.NoError(t, err)
	require.True(t, state.IsAvailable)

	got, err := repo.GetByID(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, order.StatusCancelled, got.Status)
}

func TestOrderRepository_ReconcileAvailability_RepairsDrift(t *testing.T) {
	pool := setupTestDB(t)
	repo := order.NewRepository(pool)
	ctx := context.Background()

	buyerID, artistID, artworkID := createTestListing(t, pool)

	_, err := repo.Create(ctx, newTestOrder(buyerID, artistID, artworkID))
	require.NoError(t, err)

	// Simulate drift: the artwork is marked open despite a live order.
	_, err = pool.Exec(ctx, `UPDATE artworks SET is_available = TRUE WHERE id = $1`, artworkID)
	require.NoError(t, err)

	closed, _, err := repo.ReconcileAvailability(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, closed, int64(1))

	state, err := repo.GetArtworkState(ctx, artworkID)
	require.NoError(t, err)
	require.False(t, state.IsAvailable)
}
