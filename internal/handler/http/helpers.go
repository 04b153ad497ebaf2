package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/artwork"
	"github.com/artvista/marketplace/internal/collection"
	"github.com/artvista/marketplace/internal/favorite"
	"github.com/artvista/marketplace/internal/order"
	"github.com/artvista/marketplace/internal/promo"
	"github.com/artvista/marketplace/internal/user"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func formatValidationErrors(validationErrors validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		details[fieldError.Field()] = fieldError.Tag()
	}
	return details
}

// respondWithError отправляет JSON ошибку
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, artwork.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrArtworkNotFound),
		errors.Is(err, promo.ErrNotFound),
		errors.Is(err, favorite.ErrNotFound),
		errors.Is(err, collection.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, artwork.ErrUnavailable),
		errors.Is(err, order.ErrArtworkUnavailable),
		errors.Is(err, favorite.ErrAlreadyExists),
		errors.Is(err, collection.ErrArtworkAlreadyAdded):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrInvalidStatus):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
// On failure it writes the 400 response itself and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// validateStruct runs validator tags over payload and writes the 400
// response on failure.
func validateStruct(w http.ResponseWriter, validate *validator.Validate, payload interface{}) bool {
	err := validate.Struct(payload)
	if err == nil {
		return true
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if ok {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: formatValidationErrors(validationErrors),
		})
	} else {
		log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
		respondWithError(w, http.StatusInternalServerError, "Internal validation error")
	}
	return false
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	param := chi.URLParam(r, name)
	id, err := uuid.FromString(param)
	if err != nil {
		log.Warn().Err(err).Str(name, param).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

// externalIdentityHeader carries the external user id set by the
// authenticating gateway.
const externalIdentityHeader = "X-External-User-Id"

// identityResolver maps the gateway identity header to an internal user,
// provisioning one on first sight.
type identityResolver struct {
	users user.Service
}

func (ir *identityResolver) resolve(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	externalID := r.Header.Get(externalIdentityHeader)
	if externalID == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing "+externalIdentityHeader+" header")
		return uuid.Nil, false
	}

	resolved, err := ir.users.EnsureUser(r.Context(), externalID)
	if err != nil {
		log.Error().Err(err).Str("external_id", externalID).Msg("Failed to resolve external identity")
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve user identity")
		return uuid.Nil, false
	}

	return resolved.ID, true
}
