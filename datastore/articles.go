package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/newslinemedia/technews/models"
)

// ArticleRepository handles database operations for articles.
type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// CreateArticle inserts a new article. Creation and update timestamps are
// assigned by the database and written back onto the model.
func (r *ArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	if article.ID == "" {
		return fmt.Errorf("article ID cannot be empty")
	}
	if article.Title == "" {
		return fmt.Errorf("article title cannot be empty")
	}
	if !models.IsValidCategory(article.Category) {
		return fmt.Errorf("invalid article category %q", article.Category)
	}

	query := `
		INSERT INTO articles (
			id, title, slug, content, excerpt, category, author, featured_image,
			status, featured, source_url, source_name, is_aggregated, published_at,
			views, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
		article.Category, article.Author, article.FeaturedImage, article.Status,
		article.Featured, article.SourceURL, article.SourceName, article.IsAggregated,
		article.PublishedAt, article.Views,
	).Scan(&article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

// ExistsBySourceURL reports whether any article was already imported from the
// given canonical source URL. Exact string match; callers are expected to
// canonicalize the URL the same way before storage and lookup.
func (r *ArticleRepository) ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	if sourceURL == "" {
		return false, fmt.Errorf("source URL cannot be empty")
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM articles WHERE source_url = $1)`
	if err := r.db.QueryRowContext(ctx, query, sourceURL).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check article existence for source URL: %w", err)
	}
	return exists, nil
}

// GetArticleByID retrieves a single article.
func (r *ArticleRepository) GetArticleByID(ctx context.Context, articleID string) (*models.Article, error) {
	query := `
		SELECT id, title, slug, content, excerpt, category, author, featured_image,
		       status, featured, source_url, source_name, is_aggregated, published_at,
		       views, created_at, updated_at
		FROM articles WHERE id = $1
	`
	var a models.Article
	row := r.db.QueryRowContext(ctx, query, articleID)
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Category,
		&a.Author, &a.FeaturedImage, &a.Status, &a.Featured, &a.SourceURL,
		&a.SourceName, &a.IsAggregated, &a.PublishedAt, &a.Views, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("article not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}
	return &a, nil
}
