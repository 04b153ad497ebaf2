package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/order"
)

type ShippingAddressRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CreateOrderRequest struct {
	BuyerID         string                 `json:"buyer_id" validate:"required,uuid4"`
	ArtworkID       string                 `json:"artwork_id" validate:"required,uuid4"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	PaymentIntentID string                 `json:"payment_intent_id"`
}

type UpdateOrderStatusRequest struct {
	Status         string  `json:"status" validate:"required"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Patch("/orders/{id}/status", h.handleUpdateOrderStatus)
	router.Get("/users/{id}/orders", h.handleListBuyerOrders)
	router.Get("/artists/{id}/orders", h.handleListArtistOrders)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	buyerID, err := uuid.FromString(requestPayload.BuyerID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid buyer_id")
		return
	}
	artworkID, err := uuid.FromString(requestPayload.ArtworkID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid artwork_id")
		return
	}

	input := order.CreateInput{
		BuyerID:   buyerID,
		ArtworkID: artworkID,
		ShippingAddress: order.ShippingAddress{
			Name:       requestPayload.ShippingAddress.Name,
			Street:     requestPayload.ShippingAddress.Street,
			City:       requestPayload.ShippingAddress.City,
			State:      requestPayload.ShippingAddress.State,
			PostalCode: requestPayload.ShippingAddress.PostalCode,
			Country:    requestPayload.ShippingAddress.Country,
		},
		PaymentIntentID: requestPayload.PaymentIntentID,
	}

	created, err := h.service.CreateOrder(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrArtworkNotFound):
			clientMessage = "Artwork not found"
		case errors.Is(err, order.ErrArtworkUnavailable):
			clientMessage = "Artwork is no longer available"
		default:
			clientMessage = "Failed to create order"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	details, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get order via service")

		var clientMessage string
		if errors.Is(err, order.ErrOrderNotFound) {
			clientMessage = "Order not found"
		} else {
			clientMessage = "Failed to get order"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *OrderHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload UpdateOrderStatusRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	update := order.StatusUpdate{
		Status:         order.Status(requestPayload.Status),
		TrackingNumber: requestPayload.TrackingNumber,
		Notes:          requestPayload.Notes,
	}

	if err := h.service.UpdateOrderStatus(r.Context(), orderID, update); err != nil {
		log.Error().Err(err).Msg("Failed to update order status via service")

		var clientMessage string
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			clientMessage = "Order not found"
		case errors.Is(err, order.ErrInvalidStatus):
			clientMessage = "Unknown order status"
		case errors.Is(err, order.ErrInvalidTransition):
			clientMessage = "Status transition not allowed"
		default:
			clientMessage = "Failed to update order status"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleListBuyerOrders(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	status, ok := parseOptionalStatus(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListBuyerOrders(r.Context(), buyerID, status)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list buyer orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListArtistOrders(w http.ResponseWriter, r *http.Request) {
	artistID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	status, ok := parseOptionalStatus(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListArtistOrders(r.Context(), artistID, status)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list artist orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func parseOptionalStatus(w http.ResponseWriter, r *http.Request) (*order.Status, bool) {
	statusParam := r.URL.Query().Get("status")
	if statusParam == "" {
		return nil, true
	}

	status := order.Status(statusParam)
	if !status.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid status parameter")
		return nil, false
	}
	return &status, true
}
