package cart_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/artvista/marketplace/internal/artwork"
	"github.com/artvista/marketplace/internal/cart"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) Upsert(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (uuid.UUID, error) {
	args := m.Called(ctx, userID, artworkID, quantity)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, userID, artworkID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Delete(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, artworkID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) ItemQuantity(ctx context.Context, userID, artworkID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, artworkID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]cart.ItemDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.ItemDetails), args.Error(1)
}

type MockArtworkReader struct {
	mock.Mock
}

func (m *MockArtworkReader) GetByID(ctx context.Context, id uuid.UUID) (*artwork.ArtworkWithArtist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*artwork.ArtworkWithArtist), args.Error(1)
}

func availableArtwork(id uuid.UUID) *artwork.ArtworkWithArtist {
	return &artwork.ArtworkWithArtist{
		Artwork: artwork.Artwork{
			ID:          id,
			Title:       "Luminous Depths",
			Price:       740,
			Currency:    "USD",
			IsAvailable: true,
		},
	}
}

func TestCartService_Add_Success(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	userID := uuid.Must(uuid.NewV4())
	artworkID := uuid.Must(uuid.NewV4())
	expectedID := uuid.Must(uuid.NewV4())

	mockArtworks.On("GetByID", mock.Anything, artworkID).
		Return(availableArtwork(artworkID), nil).
		Once()

	mockRepo.On("Upsert", mock.Anything, userID, artworkID, 2).
		Return(expectedID, nil).
		Once()

	itemID, err := cartService.Add(context.Background(), userID, artworkID, 2)

	require.NoError(t, err)
	require.Equal(t, expectedID, itemID)
	mockRepo.AssertExpectations(t)
	mockArtworks.AssertExpectations(t)
}

func TestCartService_Add_DefaultsQuantityToOne(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	userID := uuid.Must(uuid.NewV4())
	artworkID := uuid.Must(uuid.NewV4())

	mockArtworks.On("GetByID", mock.Anything, artworkID).
		Return(availableArtwork(artworkID), nil).
		Once()

	mockRepo.On("Upsert", mock.Anything, userID, artworkID, 1).
		Return(uuid.Must(uuid.NewV4()), nil).
		Once()

	_, err := cartService.Add(context.Background(), userID, artworkID, 0)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCartService_Add_UnknownArtwork(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	artworkID := uuid.Must(uuid.NewV4())

	mockArtworks.On("GetByID", mock.Anything, artworkID).
		Return(nil, artwork.ErrNotFound).
		Once()

	_, err := cartService.Add(context.Background(), uuid.Must(uuid.NewV4()), artworkID, 1)

	require.Error(t, err)
	require.ErrorIs(t, err, artwork.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_Add_UnavailableArtwork(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	artworkID := uuid.Must(uuid.NewV4())

	sold := availableArtwork(artworkID)
	sold.IsAvailable = false

	mockArtworks.On("GetByID", mock.Anything, artworkID).
		Return(sold, nil).
		Once()

	_, err := cartService.Add(context.Background(), uuid.Must(uuid.NewV4()), artworkID, 1)

	require.Error(t, err)
	require.ErrorIs(t, err, artwork.ErrUnavailable)
	mockRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_UpdateQuantity_ZeroRemovesItem(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	userID := uuid.Must(uuid.NewV4())
	artworkID := uuid.Must(uuid.NewV4())

	mockRepo.On("Delete", mock.Anything, userID, artworkID).
		Return(true, nil).
		Once()

	removed, err := cartService.UpdateQuantity(context.Background(), userID, artworkID, 0)

	require.NoError(t, err)
	require.True(t, removed)
	mockRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCartService_UpdateQuantity_PositiveSetsQuantity(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	userID := uuid.Must(uuid.NewV4())
	artworkID := uuid.Must(uuid.NewV4())

	mockRepo.On("SetQuantity", mock.Anything, userID, artworkID, 3).
		Return(true, nil).
		Once()

	updated, err := cartService.UpdateQuantity(context.Background(), userID, artworkID, 3)

	require.NoError(t, err)
	require.True(t, updated)
	mockRepo.AssertExpectations(t)
}

func TestCartService_Remove_MissingItem(t *testing.T) {
	mockRepo := new(MockCartRepository)
	mockArtworks := new(MockArtworkReader)
	cartService := cart.NewService(mockRepo, mockArtworks)

	userID := uuid.Must(uuid.NewV4())
	artworkID := uuid.Must(uuid.NewV4())

	mockRepo.On("Delete", mock.Anything, userID, artworkID).
		Return(false, nil).
		Once()

	removed, err := cartService.Remove(context.Background(), userID, artworkID)

	require.NoError(t, err)
	require.False(t, removed)
	mockRepo.AssertExpectations(t)
}
