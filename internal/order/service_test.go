package order_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/artvista/marketplace/internal/order"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetArtworkState(ctx context.Context, artworkID uuid.UUID) (*order.ArtworkState, error) {
	args := m.Called(ctx, artworkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ArtworkState), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) (uuid.UUID, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDetails(ctx context.Context, id uuid.UUID) (*order.Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Details), args.Error(1)
}

func (m *MockOrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *order.Status) ([]order.Details, error) {
	args := m.Called(ctx, buyerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Details), args.Error(1)
}

func (m *MockOrderRepository) ListByArtist(ctx context.Context, artistID uuid.UUID, status *order.Status) ([]order.Details, error) {
	args := m.Called(ctx, artistID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Details), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, update order.StatusUpdate, reopenArtwork bool) error {
	args := m.Called(ctx, orderID, update, reopenArtwork)
	return args.Error(0)
}

func (m *MockOrderRepository) ReconcileAvailability(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func TestOrderService_CreateOrder_SnapshotsPrice(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	buyerID := uuid.Must(uuid.NewV4())
	artworkID := uuid.Must(uuid.NewV4())
	artistID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetArtworkState", mock.Anything, artworkID).
		Return(&order.ArtworkState{
			ID:          artworkID,
			ArtistID:    artistID,
			Price:       1250,
			Currency:    "USD",
			IsAvailable: true,
		}, nil).
		Once()

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
		Return(uuid.Must(uuid.NewV4()), nil).
		Once()

	input := order.CreateInput{
		BuyerID:   buyerID,
		ArtworkID: artworkID,
		ShippingAddress: order.ShippingAddress{
			Name:       "Test Buyer",
			Street:     "1 Gallery Lane",
			City:       "Lisbon",
			PostalCode: "1000-001",
			Country:    "PT",
		},
	}

	createdOrder, err := orderService.CreateOrder(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, createdOrder)
	require.Equal(t, order.StatusPending, createdOrder.Status)
	require.Equal(t, float64(1250), createdOrder.TotalAmount)
	require.Equal(t, "USD", createdOrder.Currency)
	require.Equal(t, artistID, createdOrder.ArtistID)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_CreateOrder_ArtworkNotFound(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	artworkID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetArtworkState", mock.Anything, artworkID).
		Return(nil, order.ErrArtworkNotFound).
		Once()

	createdOrder, err := orderService.CreateOrder(context.Background(), order.CreateInput{
		BuyerID:   uuid.Must(uuid.NewV4()),
		ArtworkID: artworkID,
	})

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrArtworkNotFound)
	require.Nil(t, createdOrder)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_CreateOrder_ArtworkUnavailable(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	artworkID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetArtworkState", mock.Anything, artworkID).
		Return(&order.ArtworkState{
			ID:          artworkID,
			ArtistID:    uuid.Must(uuid.NewV4()),
			Price:       500,
			Currency:    "USD",
			IsAvailable: false,
		}, nil).
		Once()

	createdOrder, err := orderService.CreateOrder(context.Background(), order.CreateInput{
		BuyerID:   uuid.Must(uuid.NewV4()),
		ArtworkID: artworkID,
	})

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrArtworkUnavailable)
	require.Nil(t, createdOrder)
	mockRepo.AssertCalled(t, "GetArtworkState", mock.Anything, artworkID)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_LostRace(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	artworkID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetArtworkState", mock.Anything, artworkID).
		Return(&order.ArtworkState{
			ID:          artworkID,
			ArtistID:    uuid.Must(uuid.NewV4()),
			Price:       500,
			Currency:    "USD",
			IsAvailable: true,
		}, nil).
		Once()

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
		Return(uuid.Nil, order.ErrArtworkUnavailable).
		Once()

	createdOrder, err := orderService.CreateOrder(context.Background(), order.CreateInput{
		BuyerID:   uuid.Must(uuid.NewV4()),
		ArtworkID: artworkID,
	})

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrArtworkUnavailable)
	require.Nil(t, createdOrder)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_ValidTransition(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	orderID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetByID", mock.Anything, orderID).
		Return(&order.Order{ID: orderID, Status: order.StatusPending}, nil).
		Once()

	update := order.StatusUpdate{Status: order.StatusConfirmed}

	mockRepo.On("UpdateStatus", mock.Anything, orderID, update, false).
		Return(nil).
		Once()

	err := orderService.UpdateOrderStatus(context.Background(), orderID, update)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_ForwardSkip(t *testing.T) {
	// Sellers may jump intermediate states, e.g. mark a confirmed order
	// delivered without recording shipment.
	skips := []struct {
		from order.Status
		to   order.Status
	}{
		{order.StatusConfirmed, order.StatusDelivered},
		{order.StatusPending, order.StatusShipped},
		{order.StatusPending, order.StatusDelivered},
	}

	for _, skip := range skips {
		mockRepo := new(MockOrderRepository)
		orderService := order.NewService(mockRepo)

		orderID := uuid.Must(uuid.NewV4())

		mockRepo.On("GetByID", mock.Anything, orderID).
			Return(&order.Order{ID: orderID, Status: skip.from}, nil).
			Once()

		update := order.StatusUpdate{Status: skip.to}

		mockRepo.On("UpdateStatus", mock.Anything, orderID, update, false).
			Return(nil).
			Once()

		err := orderService.UpdateOrderStatus(context.Background(), orderID, update)

		require.NoError(t, err, "%s to %s", skip.from, skip.to)
		mockRepo.AssertExpectations(t)
	}
}

func TestOrderService_UpdateOrderStatus_InvalidTransition(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	orderID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetByID", mock.Anything, orderID).
		Return(&order.Order{ID: orderID, Status: order.StatusDelivered}, nil).
		Once()

	err := orderService.UpdateOrderStatus(context.Background(), orderID, order.StatusUpdate{Status: order.StatusShipped})

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	err := orderService.UpdateOrderStatus(context.Background(), uuid.Must(uuid.NewV4()), order.StatusUpdate{Status: "misplaced"})

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrInvalidStatus)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_CancelReopensArtwork(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	orderID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetByID", mock.Anything, orderID).
		Return(&order.Order{ID: orderID, Status: order.StatusPending}, nil).
		Once()

	update := order.StatusUpdate{Status: order.StatusCancelled}

	mockRepo.On("UpdateStatus", mock.Anything, orderID, update, true).
		Return(nil).
		Once()

	err := orderService.UpdateOrderStatus(context.Background(), orderID, update)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_RepeatedCancelIsNoOp(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	orderID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetByID", mock.Anything, orderID).
		Return(&order.Order{ID: orderID, Status: order.StatusCancelled}, nil).
		Once()

	err := orderService.UpdateOrderStatus(context.Background(), orderID, order.StatusUpdate{Status: order.StatusCancelled})

	require.NoError(t, err)
	// The second cancel must never touch the repository; the artwork may
	// already belong to another buyer.
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_OrderNotFound(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	orderID := uuid.Must(uuid.NewV4())

	mockRepo.On("GetByID", mock.Anything, orderID).
		Return(nil, order.ErrOrderNotFound).
		Once()

	err := orderService.UpdateOrderStatus(context.Background(), orderID, order.StatusUpdate{Status: order.StatusConfirmed})

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrOrderNotFound)
	mockRepo.AssertExpectations(t)
}

func TestOrderService_GetOrder_Success(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	orderService := order.NewService(mockRepo)

	orderID := uuid.Must(uuid.NewV4())

	expectedDetails := order.Details{
		Order: order.Order{
			ID:          orderID,
			Status:      order.StatusConfirmed,
			TotalAmount: 980,
			Currency:    "USD",
		},
		Artwork: &order.ArtworkSummary{Title: "Serene Depths"},
	}

	mockRepo.On("GetDetails", mock.Anything, orderID).
		Return(&expectedDetails, nil).
		Once()

	details, err := orderService.GetOrder(context.Background(), orderID)

	require.NoError(t, err)
	require.NotNil(t, details)
	diff := cmp.Diff(expectedDetails, *details)
	require.Empty(t, diff)
	mockRepo.AssertExpectations(t)
}
