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

	"github.com/artvista/marketplace/internal/cart"
	marketplaceHttp "github.com/artvista/marketplace/internal/handler/http"
	"github.com/artvista/marketplace/internal/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureUser(ctx context.Context, externalID string) (*user.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserService) ListArtists(ctx context.Context, limit int, verifiedOnly *bool) ([]user.Artist, error) {
	args := m.Called(ctx, limit, verifiedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.Artist), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Add(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (uuid.UUID, error) {
	args := m.Called(ctx, userID, artworkID, quantity)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, artworkID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, userID, artworkID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, userID, artworkID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartService) ItemQuantity(ctx context.Context, userID, artworkID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, artworkID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartService) List(ctx context.Context, userID uuid.UUID) ([]cart.ItemDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.ItemDetails), args.Error(1)
}

func TestCartHandler_AddItem_ResolvesIdentity(t *testing.T) {
	mockCart := new(MockCartService)
	mockUsers := new(MockUserService)
	handler := marketplaceHttp.NewCartHandler(mockCart, mockUsers)

	resolvedUser := user.User{ID: uuid.Must(uuid.NewV4()), ExternalID: "auth0|buyer"}
	artworkID := uuid.Must(uuid.NewV4())

	mockUsers.On("EnsureUser", mock.Anything, "auth0|buyer").
		Return(&resolvedUser, nil).
		Once()
	mockCart.On("Add", mock.Anything, resolvedUser.ID, artworkID, 2).
		Return(uuid.Must(uuid.NewV4()), nil).
		Once()

	jsonBody, err := json.Marshal(marketplaceHttp.AddCartItemRequest{
		ArtworkID: artworkID.String(),
		Quantity:  2,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-External-User-Id", "auth0|buyer")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)
	mockCart.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestCartHandler_AddItem_MissingIdentityHeader(t *testing.T) {
	mockCart := new(MockCartService)
	mockUsers := new(MockUserService)
	handler := marketplaceHttp.NewCartHandler(mockCart, mockUsers)

	jsonBody, err := json.Marshal(marketplaceHttp.AddCartItemRequest{
		ArtworkID: uuid.Must(uuid.NewV4()).String(),
		Quantity:  1,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	mockCart.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockUsers.AssertNotCalled(t, "EnsureUser", mock.Anything, mock.Anything)
}

func TestCartHandler_CartCount(t *testing.T) {
	mockCart := new(MockCartService)
	mockUsers := new(MockUserService)
	handler := marketplaceHttp.NewCartHandler(mockCart, mockUsers)

	resolvedUser := user.User{ID: uuid.Must(uuid.NewV4()), ExternalID: "auth0|buyer"}

	mockUsers.On("EnsureUser", mock.Anything, "auth0|buyer").
		Return(&resolvedUser, nil).
		Once()
	mockCart.On("Count", mock.Anything, resolvedUser.ID).
		Return(int64(5), nil).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/cart/count", nil)
	req.Header.Set("X-External-User-Id", "auth0|buyer")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var actualResponse map[string]int64
	err := json.NewDecoder(rr.Body).Decode(&actualResponse)
	require.NoError(t, err)
	require.Equal(t, int64(5), actualResponse["count"])
	mockCart.AssertExpectations(t)
}

func TestCartHandler_RemoveItem_NotInCart(t *testing.T) {
	mockCart := new(MockCartService)
	mockUsers := new(MockUserService)
	handler := marketplaceHttp.NewCartHandler(mockCart, mockUsers)

	resolvedUser := user.User{ID: uuid.Must(uuid.NewV4()), ExternalID: "auth0|buyer"}
	artworkID := uuid.Must(uuid.NewV4())

	mockUsers.On("EnsureUser", mock.Anything, "auth0|buyer").
		Return(&resolvedUser, nil).
		Once()
	mockCart.On("Remove", mock.Anything, resolvedUser.ID, artworkID).
		Return(false, nil).
		Once()

	req := httptest.NewRequest(http.MethodDelete, "/cart/"+artworkID.String(), nil)
	req.Header.Set("X-External-User-Id", "auth0|buyer")

	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
	mockCart.AssertExpectations(t)
}
