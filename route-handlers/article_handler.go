package routehandlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/newslinemedia/technews/models"
	"github.com/newslinemedia/technews/webutil"
)

// ArticleGetter reads a single imported article.
type ArticleGetter interface {
	GetArticleByID(ctx context.Context, articleID string) (*models.Article, error)
}

// ArticleHandler lets admins inspect imported articles by the IDs reported in
// import results.
type ArticleHandler struct {
	Articles ArticleGetter
}

func NewArticleHandler(articles ArticleGetter) *ArticleHandler {
	return &ArticleHandler{Articles: articles}
}

func (h *ArticleHandler) HandleGetArticleByID(w http.ResponseWriter, r *http.Request) error {
	articleID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(articleID); err != nil {
		return webutil.ErrBadRequest("Invalid article ID format")
	}

	article, err := h.Articles.GetArticleByID(r.Context(), articleID)
	if err != nil {
		// sql.ErrNoRows stays wrapped in the repository error and maps to 404.
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, article)
	return nil
}
