package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/favorite"
	"github.com/artvista/marketplace/internal/user"
)

type ToggleFavoriteRequest struct {
	ArtworkID string `json:"artwork_id" validate:"required,uuid4"`
}

type FavoriteHandler struct {
	service  favorite.Service
	identity identityResolver
	validate *validator.Validate
}

func NewFavoriteHandler(service favorite.Service, users user.Service) *FavoriteHandler {
	return &FavoriteHandler{
		service:  service,
		identity: identityResolver{users: users},
		validate: validator.New(),
	}
}

func (h *FavoriteHandler) RegisterRoutes(router chi.Router) {
	router.Post("/favorites/toggle", h.handleToggle)
	router.Get("/favorites", h.handleList)
	router.Get("/favorites/{artworkID}", h.handleIsFavorited)
	router.Get("/artworks/{id}/favorites/count", h.handleCountForArtwork)
}

func (h *FavoriteHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	var requestPayload ToggleFavoriteRequest

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

	result, err := h.service.Toggle(r.Context(), userID, artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to toggle favorite via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to toggle favorite")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *FavoriteHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	favorites, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list favorites via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list favorites")
		return
	}

	respondWithJSON(w, http.StatusOK, favorites)
}

func (h *FavoriteHandler) handleIsFavorited(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.identity.resolve(w, r)
	if !ok {
		return
	}

	artworkID, ok := parseUUIDParam(w, r, "artworkID")
	if !ok {
		return
	}

	favorited, err := h.service.IsFavorited(r.Context(), userID, artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check favorite via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to check favorite")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"is_favorited": favorited})
}

func (h *FavoriteHandler) handleCountForArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	count, err := h.service.CountForArtwork(r.Context(), artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count favorites via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to count favorites")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int64{"count": count})
}
