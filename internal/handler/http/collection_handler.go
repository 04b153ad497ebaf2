package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/collection"
)

type CreateCollectionRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid4"`
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	IsPublic    bool   `json:"is_public"`
	CoverImage  string `json:"cover_image" validate:"omitempty,url"`
}

type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	CoverImage  *string `json:"cover_image,omitempty" validate:"omitempty,url"`
}

type AddCollectionArtworkRequest struct {
	ArtworkID string `json:"artwork_id" validate:"required,uuid4"`
}

type CollectionHandler struct {
	service  collection.Service
	validate *validator.Validate
}

func NewCollectionHandler(service collection.Service) *CollectionHandler {
	return &CollectionHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CollectionHandler) RegisterRoutes(router chi.Router) {
	router.Post("/collections", h.handleCreate)
	router.Get("/collections/public", h.handleListPublic)
	router.Get("/collections/{id}", h.handleGet)
	router.Patch("/collections/{id}", h.handleUpdate)
	router.Delete("/collections/{id}", h.handleDelete)
	router.Post("/collections/{id}/artworks", h.handleAddArtwork)
	router.Delete("/collections/{id}/artworks/{artworkID}", h.handleRemoveArtwork)
	router.Get("/users/{id}/collections", h.handleListByUser)
}

func (h *CollectionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateCollectionRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	userID, err := uuid.FromString(requestPayload.UserID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user_id")
		return
	}

	domainCollection := collection.Collection{
		UserID:      userID,
		Name:        requestPayload.Name,
		Description: requestPayload.Description,
		IsPublic:    requestPayload.IsPublic,
		CoverImage:  requestPayload.CoverImage,
	}

	created, err := h.service.Create(r.Context(), &domainCollection)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create collection via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create collection")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *CollectionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	details, err := h.service.Get(r.Context(), collectionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get collection via service")

		var clientMessage string
		if errors.Is(err, collection.ErrNotFound) {
			clientMessage = "Collection not found"
		} else {
			clientMessage = "Failed to get collection"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *CollectionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload UpdateCollectionRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	update := collection.Update{
		Name:        requestPayload.Name,
		Description: requestPayload.Description,
		IsPublic:    requestPayload.IsPublic,
		CoverImage:  requestPayload.CoverImage,
	}

	if err := h.service.Update(r.Context(), collectionID, update); err != nil {
		log.Error().Err(err).Msg("Failed to update collection via service")

		var clientMessage string
		if errors.Is(err, collection.ErrNotFound) {
			clientMessage = "Collection not found"
		} else {
			clientMessage = "Failed to update collection"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), collectionID); err != nil {
		log.Error().Err(err).Msg("Failed to delete collection via service")

		var clientMessage string
		if errors.Is(err, collection.ErrNotFound) {
			clientMessage = "Collection not found"
		} else {
			clientMessage = "Failed to delete collection"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) handleAddArtwork(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var requestPayload AddCollectionArtworkRequest

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

	if err := h.service.AddArtwork(r.Context(), collectionID, artworkID); err != nil {
		log.Error().Err(err).Msg("Failed to add artwork to collection via service")

		var clientMessage string
		if errors.Is(err, collection.ErrArtworkAlreadyAdded) {
			clientMessage = "Artwork is already in the collection"
		} else {
			clientMessage = "Failed to add artwork to collection"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) handleRemoveArtwork(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	artworkID, ok := parseUUIDParam(w, r, "artworkID")
	if !ok {
		return
	}

	removed, err := h.service.RemoveArtwork(r.Context(), collectionID, artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to remove artwork from collection via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove artwork from collection")
		return
	}
	if !removed {
		respondWithError(w, http.StatusNotFound, "Artwork is not in the collection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) handleListPublic(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseOptionalInt(w, r, "limit")
	if !ok {
		return
	}

	summaries, err := h.service.ListPublic(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list public collections via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list public collections")
		return
	}

	respondWithJSON(w, http.StatusOK, summaries)
}

func (h *CollectionHandler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	isPublic, ok := parseOptionalBool(w, r, "public")
	if !ok {
		return
	}

	summaries, err := h.service.ListByUser(r.Context(), userID, isPublic)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list user collections via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list user collections")
		return
	}

	respondWithJSON(w, http.StatusOK, summaries)
}
