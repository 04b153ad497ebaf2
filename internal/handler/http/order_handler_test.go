package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	marketplaceHttp "github.com/artvista/marketplace/internal/handler/http"
	"github.com/artvista/marketplace/internal/order"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, input order.CreateInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, update order.StatusUpdate) error {
	args := m.Called(ctx, orderID, update)
	return args.Error(0)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*order.Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Details), args.Error(1)
}

func (m *MockOrderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, status *order.Status) ([]order.Details, error) {
	args := m.Called(ctx, buyerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Details), args.Error(1)
}

func (m *MockOrderService) ListArtistOrders(ctx context.Context, artistID uuid.UUID, status *order.Status) ([]order.Details, error) {
	args := m.Called(ctx, artistID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Details), args.Error(1)
}

func validCreateOrderRequest() marketplaceHttp.CreateOrderRequest {
	return marketplaceHttp.CreateOrderRequest{
		BuyerID:   uuid.Must(uuid.NewV4()).String(),
		ArtworkID: uuid.Must(uuid.NewV4()).String(),
		ShippingAddress: marketplaceHttp.ShippingAddressRequest{
			Name:       "Test Buyer",
			Street:     "1 Gallery Lane",
			City:       "Lisbon",
			PostalCode: "1000-001",
			Country:    "PT",
		},
	}
}

func TestOrderHandler_CreateOrder_Success(t *testing.T) {
	mockService := new(MockOrderService)
	handler := marketplaceHttp.NewOrderHandler(mockService)

	requestDTO := validCreateOrderRequest()

	createdOrder := order.Order{
		ID:          uuid.Must(uuid.NewV4()),
		Status:      order.StatusPending,
		TotalAmount: 1250,
		Currency:    "USD",
	}

	mockService.On("CreateOrder", mock.Anything, mock.MatchedBy(func(input order.CreateInput) bool {
		return input.BuyerID.String() == requestDTO.BuyerID &&
			input.ArtworkID.String() == requestDTO.ArtworkID &&
			input.ShippingAddress.City == "Lisbon"
	})).Return(&createdOrder, nil).Once()

	jsonBody, err := json.Marshal(requestDTO)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var actualResponse order.Order
	err = json.NewDecoder(rr.Body).Decode(&actualResponse)
	require.NoError(t, err)
	require.Equal(t, createdOrder.ID, actualResponse.ID)
	require.Equal(t, order.StatusPending, actualResponse.Status)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_ArtworkUnavailable(t *testing.T) {
	mockService := new(MockOrderService)
	handler := marketplaceHttp.NewOrderHandler(mockService)

	mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("order.CreateInput")).
		Return(nil, order.ErrArtworkUnavailable).
		Once()

	jsonBody, err := json.Marshal(validCreateOrderRequest())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusConflict, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_CreateOrder_MissingShippingAddress(t *testing.T) {
	mockService := new(MockOrderService)
	handler := marketplaceHttp.NewOrderHandler(mockService)

	requestDTO := validCreateOrderRequest()
	requestDTO.ShippingAddress = marketplaceHttp.ShippingAddressRequest{}

	jsonBody, err := json.Marshal(requestDTO)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestOrderHandler_UpdateOrderStatus_InvalidTransition(t *testing.T) {
	mockService := new(MockOrderService)
	handler := marketplaceHttp.NewOrderHandler(mockService)

	orderID := uuid.Must(uuid.NewV4())

	mockService.On("UpdateOrderStatus", mock.Anything, orderID, mock.AnythingOfType("order.StatusUpdate")).
		Return(order.ErrInvalidTransition).
		Once()

	jsonBody, err := json.Marshal(marketplaceHttp.UpdateOrderStatusRequest{Status: "shipped"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+orderID.String()+"/status", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	mockService := new(MockOrderService)
	handler := marketplaceHttp.NewOrderHandler(mockService)

	orderID := uuid.Must(uuid.NewV4())

	mockService.On("GetOrder", mock.Anything, orderID).
		Return(nil, order.ErrOrderNotFound).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_GetOrder_InvalidID(t *testing.T) {
	mockService := new(MockOrderService)
	handler := marketplaceHttp.NewOrderHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
}
