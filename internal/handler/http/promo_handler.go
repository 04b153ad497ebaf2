package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/promo"
)

type ValidatePromoRequest struct {
	Code     string   `json:"code" validate:"required"`
	Subtotal *float64 `json:"subtotal,omitempty" validate:"omitempty,gte=0"`
}

type ConsumePromoRequest struct {
	Code string `json:"code" validate:"required"`
}

type CreatePromoRequest struct {
	Code           string     `json:"code" validate:"required,min=3,max=50"`
	DiscountType   string     `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue  float64    `json:"discount_value" validate:"required,gt=0"`
	MinOrderAmount *float64   `json:"min_order_amount,omitempty" validate:"omitempty,gt=0"`
	MaxUses        *int       `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Description    string     `json:"description" validate:"omitempty,max=500"`
}

type PromoHandler struct {
	service  promo.Service
	validate *validator.Validate
}

func NewPromoHandler(service promo.Service) *PromoHandler {
	return &PromoHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *PromoHandler) RegisterRoutes(router chi.Router) {
	router.Post("/promo-codes/validate", h.handleValidate)
	router.Post("/promo-codes/consume", h.handleConsume)
	router.Post("/promo-codes", h.handleCreate)
	router.Get("/promo-codes/active", h.handleListActive)
	router.Delete("/promo-codes/{id}", h.handleDeactivate)
}

func (h *PromoHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var requestPayload ValidatePromoRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	var (
		result promo.ValidationResult
		err    error
	)
	if requestPayload.Subtotal != nil {
		result, err = h.service.ValidateForAmount(r.Context(), requestPayload.Code, *requestPayload.Subtotal)
	} else {
		result, err = h.service.Validate(r.Context(), requestPayload.Code)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to validate promo code via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to validate promo code")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *PromoHandler) handleConsume(w http.ResponseWriter, r *http.Request) {
	var requestPayload ConsumePromoRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	if err := h.service.Consume(r.Context(), requestPayload.Code); err != nil {
		log.Error().Err(err).Msg("Failed to consume promo code via service")

		var clientMessage string
		if errors.Is(err, promo.ErrNotFound) {
			clientMessage = "Promo code not found"
		} else {
			clientMessage = "Failed to consume promo code"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PromoHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreatePromoRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	domainPromo := promo.PromoCode{
		Code:           requestPayload.Code,
		DiscountType:   promo.DiscountType(requestPayload.DiscountType),
		DiscountValue:  requestPayload.DiscountValue,
		MinOrderAmount: requestPayload.MinOrderAmount,
		MaxUses:        requestPayload.MaxUses,
		ExpiresAt:      requestPayload.ExpiresAt,
		Description:    requestPayload.Description,
	}

	created, err := h.service.Create(r.Context(), &domainPromo)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create promo code via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create promo code")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *PromoHandler) handleListActive(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list promo codes via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list promo codes")
		return
	}

	respondWithJSON(w, http.StatusOK, codes)
}

func (h *PromoHandler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	promoID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), promoID); err != nil {
		log.Error().Err(err).Msg("Failed to deactivate promo code via service")

		var clientMessage string
		if errors.Is(err, promo.ErrNotFound) {
			clientMessage = "Promo code not found"
		} else {
			clientMessage = "Failed to deactivate promo code"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
