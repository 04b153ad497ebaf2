package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/artwork"
	"github.com/artvista/marketplace/internal/cart"
	"github.com/artvista/marketplace/internal/user"
)

type AddCartItemRequest struct {
	ArtworkID string `json:"artwork_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartHandler struct {
	service  cart.Service
	identity identityResolver
	validate *validator.Validate
}

func NewCartHandler(service cart.Service, users user.Service) *CartHandler {
	return &CartHandler{
		service:  service,
		identity: identityResolver{users: users},
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleListCart)
	router.Post("/cart", h.handleAddItem)
	router.Delete("/cart", h.handleClearCart)
	router.Get("/cart/count", h.handleCartCount)
	router.Get("/cart/{artworkID}", h.handleItemQuantity)
	router.Put("/cart/{artworkID}", h.handleUpdateQuantity)
	router.Delete("/cart/{artworkID}", h.handleRemoveItem)
}

func (h *CartHandler) handleListCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list cart via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list cart")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	var requestPayload AddCartItemRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	artworkID, err := uuid.FromString(requestPayload.ArtworkID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid artwork_id")
		return
	}

	itemID, err := h.service.Add(r.Context(), userID, artworkID, requestPayload.Quantity)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add cart item via service")

		var clientMessage string
		switch {
		case errors.Is(err, artwork.ErrNotFound):
			clientMessage = "Artwork not found"
		case errors.Is(err, artwork.ErrUnavailable):
			clientMessage = "Artwork is no longer available"
		default:
			clientMessage = "Failed to add item to cart"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": itemID})
}

func (h *CartHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	artworkID, ok := parseUUIDParam(w, r, "artworkID")
	if !ok {
		return
	}

	var requestPayload UpdateCartQuantityRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}

	changed, err := h.service.UpdateQuantity(r.Context(), userID, artworkID, requestPayload.Quantity)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update cart quantity via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update cart quantity")
		return
	}
	if !changed {
		respondWithError(w, http.StatusNotFound, "Item is not in the cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	artworkID, ok := parseUUIDParam(w, r, "artworkID")
	if !ok {
		return
	}

	removed, err := h.service.Remove(r.Context(), userID, artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to remove cart item via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove item from cart")
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Item is not in the cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	removed, err := h.service.Clear(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear cart via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to clear cart")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (h *CartHandler) handleCartCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	count, err := h.service.Count(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count cart items via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to count cart items")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *CartHandler) handleItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	artworkID, ok := parseUUIDParam(w, r, "artworkID")
	if !ok {
		return
	}

	quantity, err := h.service.ItemQuantity(r.Context(), userID, artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get cart item quantity via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get cart item quantity")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"quantity": quantity})
}
