package routehandlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/newslinemedia/technews/models"
	"github.com/newslinemedia/technews/webutil"
	log "github.com/sirupsen/logrus"
)

// FeedImporter runs the import pipeline for one feed.
type FeedImporter interface {
	ImportFeed(ctx context.Context, feed models.FeedSource, limit int) models.FeedImportResult
}

// ImportHandler exposes the single-feed "import now" admin action.
type ImportHandler struct {
	Importer FeedImporter
}

func NewImportHandler(importer FeedImporter) *ImportHandler {
	return &ImportHandler{Importer: importer}
}

type importFeedRequest struct {
	FeedURL  string          `json:"feedUrl"`
	FeedName string          `json:"feedName"`
	Category models.Category `json:"category"`
	Limit    int             `json:"limit"`
}

func (h *ImportHandler) HandleImportFeed(w http.ResponseWriter, r *http.Request) error {
	var req importFeedRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.FeedURL == "" || req.FeedName == "" {
		return webutil.ErrBadRequest("Missing required fields (feedUrl, feedName)")
	}
	if !models.IsValidCategory(req.Category) {
		return webutil.ErrBadRequest("Invalid category")
	}

	feed := models.FeedSource{
		Name:     req.FeedName,
		URL:      req.FeedURL,
		Category: req.Category,
		Enabled:  true,
	}

	log.Infof("Manual import triggered for feed %q", req.FeedName)
	result := h.Importer.ImportFeed(r.Context(), feed, req.Limit)
	webutil.RespondWithJSON(w, http.StatusOK, result)
	return nil
}
