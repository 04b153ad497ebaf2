package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/user"
)

type EnsureUserRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
}

type UpdateUserRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"omitempty,email"`
	Bio          string `json:"bio" validate:"omitempty,max=2000"`
	Location     string `json:"location" validate:"omitempty,max=255"`
	Website      string `json:"website" validate:"omitempty,url"`
	ProfileImage string `json:"profile_image" validate:"omitempty,url"`
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Post("/users/ensure", h.handleEnsureUser)
	router.Get("/users/{id}", h.handleGetUser)
	router.Put("/users/{id}", h.handleUpdateUser)
	router.Get("/artists", h.handleListArtists)
}

func (h *UserHandler) handleEnsureUser(w http.ResponseWriter, r *http.Request) {
	var requestPayload EnsureUserRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	ensured, err := h.service.EnsureUser(r.Context(), requestPayload.ExternalID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to ensure user via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to ensure user")
		return
	}

	respondWithJSON(w, http.StatusOK, ensured)
}

func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	foundUser, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get user via service")

		var clientMessage string
		if errors.Is(err, user.ErrNotFound) {
			clientMessage = "User not found"
		} else {
			clientMessage = "Failed to get user"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, foundUser)
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload UpdateUserRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	domainUser := user.User{
		ID:           userID,
		Name:         requestPayload.Name,
		Email:        requestPayload.Email,
		Bio:          requestPayload.Bio,
		Location:     requestPayload.Location,
		Website:      requestPayload.Website,
		ProfileImage: requestPayload.ProfileImage,
	}

	if err := h.service.UpdateUser(r.Context(), &domainUser); err != nil {
		log.Error().Err(err).Msg("Failed to update user via service")

		var clientMessage string
		if errors.Is(err, user.ErrNotFound) {
			clientMessage = "User not found"
		} else {
			clientMessage = "Failed to update user"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleListArtists(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	var verifiedOnly *bool
	if verifiedParam := r.URL.Query().Get("verified"); verifiedParam != "" {
		parsed, err := strconv.ParseBool(verifiedParam)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid verified parameter")
			return
		}
		verifiedOnly = &parsed
	}

	artists, err := h.service.ListArtists(r.Context(), limit, verifiedOnly)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list artists via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list artists")
		return
	}

	respondWithJSON(w, http.StatusOK, artists)
}
