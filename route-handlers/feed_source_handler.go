package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/newslinemedia/technews/ingestion"
	"github.com/newslinemedia/technews/models"
	"github.com/newslinemedia/technews/webutil"
	log "github.com/sirupsen/logrus"
)

// FeedSourceHandler exposes the Feed Registry CRUD over HTTP for the admin
// surface.
type FeedSourceHandler struct {
	Registry *ingestion.FeedRegistry
}

func NewFeedSourceHandler(registry *ingestion.FeedRegistry) *FeedSourceHandler {
	return &FeedSourceHandler{Registry: registry}
}

type feedSourceRequest struct {
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Category models.Category `json:"category"`
	Enabled  *bool           `json:"enabled"`
}

func (req *feedSourceRequest) validate() error {
	if req.Name == "" || req.URL == "" {
		return errors.New("missing required fields (name, url)")
	}
	if !models.IsValidCategory(req.Category) {
		return errors.New("invalid category")
	}
	return nil
}

func (h *FeedSourceHandler) HandleCreateFeedSource(w http.ResponseWriter, r *http.Request) error {
	var req feedSourceRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if err := req.validate(); err != nil {
		return webutil.ErrBadRequest(err.Error())
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	source := models.FeedSource{
		ID:       uuid.NewString(),
		Name:     req.Name,
		URL:      req.URL,
		Category: req.Category,
		Enabled:  enabled,
	}

	if err := h.Registry.Create(r.Context(), &source); err != nil {
		log.Errorf("Failed to create feed source %q: %v", req.Name, err)
		return webutil.ErrInternalServerWrap("Failed to create feed source", err)
	}

	log.Infof("Feed source created: ID=%s, Name=%s", source.ID, source.Name)
	webutil.RespondWithJSON(w, http.StatusCreated, source)
	return nil
}

func (h *FeedSourceHandler) HandleGetFeedSources(w http.ResponseWriter, r *http.Request) error {
	sources, err := h.Registry.ListAll(r.Context())
	if err != nil {
		log.Errorf("Failed to list feed sources: %v", err)
		return webutil.ErrInternalServerWrap("Failed to retrieve feed sources", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, sources)
	return nil
}

func (h *FeedSourceHandler) HandleGetFeedSourceByID(w http.ResponseWriter, r *http.Request) error {
	sourceID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(sourceID); err != nil {
		return webutil.ErrBadRequest("Invalid feed source ID format")
	}

	source, err := h.Registry.Get(r.Context(), sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Feed source not found")
		}
		log.Errorf("Failed to get feed source %s: %v", sourceID, err)
		return webutil.ErrInternalServerWrap("Failed to retrieve feed source", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, source)
	return nil
}

func (h *FeedSourceHandler) HandleUpdateFeedSource(w http.ResponseWriter, r *http.Request) error {
	sourceID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(sourceID); err != nil {
		return webutil.ErrBadRequest("Invalid feed source ID format")
	}

	var req feedSourceRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if err := req.validate(); err != nil {
		return webutil.ErrBadRequest(err.Error())
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	source := models.FeedSource{
		ID:        sourceID,
		Name:      req.Name,
		URL:       req.URL,
		Category:  req.Category,
		Enabled:   enabled,
		UpdatedAt: time.Now().UTC(),
	}

	if err := h.Registry.Update(r.Context(), &source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Feed source not found")
		}
		log.Errorf("Failed to update feed source %s: %v", sourceID, err)
		return webutil.ErrInternalServerWrap("Failed to update feed source", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, source)
	return nil
}

func (h *FeedSourceHandler) HandleDeleteFeedSource(w http.ResponseWriter, r *http.Request) error {
	sourceID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(sourceID); err != nil {
		return webutil.ErrBadRequest("Invalid feed source ID format")
	}

	if err := h.Registry.Delete(r.Context(), sourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Feed source not found")
		}
		log.Errorf("Failed to delete feed source %s: %v", sourceID, err)
		return webutil.ErrInternalServerWrap("Failed to delete feed source", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
	return nil
}
