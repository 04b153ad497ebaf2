package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/artvista/marketplace/internal/artwork"
)

type CreateArtworkRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=255"`
	Description     string   `json:"description" validate:"omitempty,max=5000"`
	ArtistID        string   `json:"artist_id" validate:"required,uuid4"`
	Category        string   `json:"category" validate:"required,oneof=painting sculpture photography digital mixed-media drawing"`
	Medium          string   `json:"medium" validate:"omitempty,max=255"`
	Width           float64  `json:"width" validate:"required,gt=0"`
	Height          float64  `json:"height" validate:"required,gt=0"`
	Depth           *float64 `json:"depth,omitempty" validate:"omitempty,gt=0"`
	Unit            string   `json:"unit" validate:"required,oneof=cm in"`
	Price           float64  `json:"price" validate:"required,gt=0"`
	Currency        string   `json:"currency" validate:"omitempty,len=3"`
	PrimaryImageURL string   `json:"primary_image_url" validate:"omitempty,url"`
	Tags            []string `json:"tags" validate:"omitempty,dive,min=1"`
	IsFeatured      bool     `json:"is_featured"`
	YearCreated     *int     `json:"year_created,omitempty" validate:"omitempty,gte=1000"`
}

type ArtworkHandler struct {
	service  artwork.Service
	validate *validator.Validate
}

func NewArtworkHandler(service artwork.Service) *ArtworkHandler {
	return &ArtworkHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *ArtworkHandler) RegisterRoutes(router chi.Router) {
	router.Get("/artworks", h.handleListArtworks)
	router.Get("/artworks/featured", h.handleFeaturedArtworks)
	router.Get("/artworks/search", h.handleSearchArtworks)
	router.Get("/artworks/{id}", h.handleGetArtwork)
	router.Post("/artworks", h.handleCreateArtwork)
	router.Get("/artists/{id}/artworks", h.handleListByArtist)
}

func (h *ArtworkHandler) handleCreateArtwork(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateArtworkRequest

	if !decodeJSON(w, r, &requestPayload) {
		return
	}
	if !validateStruct(w, h.validate, requestPayload) {
		return
	}

	artistID, err := uuid.FromString(requestPayload.ArtistID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid artist_id")
		return
	}

	domainArtwork := artwork.Artwork{
		Title:       requestPayload.Title,
		Description: requestPayload.Description,
		ArtistID:    artistID,
		Category:    artwork.Category(requestPayload.Category),
		Medium:      requestPayload.Medium,
		Dimensions: artwork.Dimensions{
			Width:  requestPayload.Width,
			Height: requestPayload.Height,
			Depth:  requestPayload.Depth,
			Unit:   requestPayload.Unit,
		},
		Price:           requestPayload.Price,
		Currency:        requestPayload.Currency,
		PrimaryImageURL: requestPayload.PrimaryImageURL,
		Tags:            requestPayload.Tags,
		IsFeatured:      requestPayload.IsFeatured,
		YearCreated:     requestPayload.YearCreated,
	}

	created, err := h.service.CreateArtwork(r.Context(), &domainArtwork)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create artwork via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to create artwork")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ArtworkHandler) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	found, err := h.service.GetArtwork(r.Context(), artworkID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get artwork via service")

		var clientMessage string
		if errors.Is(err, artwork.ErrNotFound) {
			clientMessage = "Artwork not found"
		} else {
			clientMessage = "Failed to get artwork"
		}

		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *ArtworkHandler) handleListArtworks(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseArtworkFilter(w, r)
	if !ok {
		return
	}

	artworks, err := h.service.ListArtworks(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list artworks via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list artworks")
		return
	}

	respondWithJSON(w, http.StatusOK, artworks)
}

func (h *ArtworkHandler) handleFeaturedArtworks(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseOptionalInt(w, r, "limit")
	if !ok {
		return
	}

	artworks, err := h.service.FeaturedArtworks(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list featured artworks via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list featured artworks")
		return
	}

	respondWithJSON(w, http.StatusOK, artworks)
}

func (h *ArtworkHandler) handleSearchArtworks(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		respondWithError(w, http.StatusBadRequest, "Search term q is required")
		return
	}

	var category *artwork.Category
	if categoryParam := r.URL.Query().Get("category"); categoryParam != "" {
		parsed := artwork.Category(categoryParam)
		category = &parsed
	}

	limit, ok := parseOptionalInt(w, r, "limit")
	if !ok {
		return
	}

	artworks, err := h.service.SearchArtworks(r.Context(), term, category, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to search artworks via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to search artworks")
		return
	}

	respondWithJSON(w, http.StatusOK, artworks)
}

func (h *ArtworkHandler) handleListByArtist(w http.ResponseWriter, r *http.Request) {
	artistID, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	isAvailable, ok := parseOptionalBool(w, r, "available")
	if !ok {
		return
	}

	artworks, err := h.service.ListByArtist(r.Context(), artistID, isAvailable)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list artist artworks via service")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list artist artworks")
		return
	}

	respondWithJSON(w, http.StatusOK, artworks)
}

func parseArtworkFilter(w http.ResponseWriter, r *http.Request) (artwork.Filter, bool) {
	var filter artwork.Filter

	query := r.URL.Query()

	if categoryParam := query.Get("category"); categoryParam != "" {
		parsed := artwork.Category(categoryParam)
		filter.Category = &parsed
	}

	if minParam := query.Get("min_price"); minParam != "" {
		parsed, err := strconv.ParseFloat(minParam, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_price parameter")
			return artwork.Filter{}, false
		}
		filter.MinPrice = &parsed
	}

	if maxParam := query.Get("max_price"); maxParam != "" {
		parsed, err := strconv.ParseFloat(maxParam, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid max_price parameter")
			return artwork.Filter{}, false
		}
		filter.MaxPrice = &parsed
	}

	var ok bool
	if filter.IsAvailable, ok = parseOptionalBool(w, r, "available"); !ok {
		return artwork.Filter{}, false
	}
	if filter.IsFeatured, ok = parseOptionalBool(w, r, "featured"); !ok {
		return artwork.Filter{}, false
	}
	if filter.Limit, ok = parseOptionalInt(w, r, "limit"); !ok {
		return artwork.Filter{}, false
	}
	if filter.Offset, ok = parseOptionalInt(w, r, "offset"); !ok {
		return artwork.Filter{}, false
	}

	return filter, true
}

func parseOptionalInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	param := r.URL.Query().Get(name)
	if param == "" {
		return 0, true
	}
	parsed, err := strconv.Atoi(param)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return parsed, true
}

func parseOptionalBool(w http.ResponseWriter, r *http.Request, name string) (*bool, bool) {
	param := r.URL.Query().Get(name)
	if param == "" {
		return nil, true
	}
	parsed, err := strconv.ParseBool(param)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid "+name+" parameter")
		return nil, false
	}
	return &parsed, true
}
