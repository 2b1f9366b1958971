package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/newslinemedia/technews/models"
)

// FeedSourceRepository handles database operations for feed_sources.
type FeedSourceRepository struct {
	db *sql.DB
}

func NewFeedSourceRepository(db *sql.DB) *FeedSourceRepository {
	return &FeedSourceRepository{db: db}
}

func (r *FeedSourceRepository) CreateFeedSource(ctx context.Context, source *models.FeedSource) error {
	if _, err := uuid.Parse(source.ID); err != nil {
		return fmt.Errorf("invalid feed source ID format: %w", err)
	}
	if source.Name == "" {
		return fmt.Errorf("feed source name cannot be empty")
	}
	if source.URL == "" {
		return fmt.Errorf("feed source URL cannot be empty")
	}
	if !models.IsValidCategory(source.Category) {
		return fmt.Errorf("invalid feed source category %q", source.Category)
	}

	query := `
		INSERT INTO feed_sources (id, name, url, category, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		source.ID, source.Name, source.URL, source.Category, source.Enabled,
	).Scan(&source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feed source: %w", err)
	}
	return nil
}

func (r *FeedSourceRepository) GetFeedSourceByID(ctx context.Context, sourceID string) (*models.FeedSource, error) {
	if _, err := uuid.Parse(sourceID); err != nil {
		return nil, fmt.Errorf("invalid feed source ID format: %w", err)
	}
	query := `SELECT id, name, url, category, enabled, created_at, updated_at FROM feed_sources WHERE id = $1`
	var source models.FeedSource
	row := r.db.QueryRowContext(ctx, query, sourceID)
	err := row.Scan(&source.ID, &source.Name, &source.URL, &source.Category,
		&source.Enabled, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get feed source by ID: %w", err)
	}
	return &source, nil
}

func (r *FeedSourceRepository) GetFeedSources(ctx context.Context) ([]models.FeedSource, error) {
	query := `SELECT id, name, url, category, enabled, created_at, updated_at FROM feed_sources ORDER BY name ASC`
	return r.queryFeedSources(ctx, query)
}

// GetEnabledFeedSources returns feeds with enabled = true.
func (r *FeedSourceRepository) GetEnabledFeedSources(ctx context.Context) ([]models.FeedSource, error) {
	query := `SELECT id, name, url, category, enabled, created_at, updated_at FROM feed_sources WHERE enabled = TRUE ORDER BY name ASC`
	return r.queryFeedSources(ctx, query)
}

// CountFeedSources returns the total number of configured feeds, enabled or
// not. Used to decide whether the built-in defaults should apply.
func (r *FeedSourceRepository) CountFeedSources(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feed_sources`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count feed sources: %w", err)
	}
	return count, nil
}

func (r *FeedSourceRepository) UpdateFeedSource(ctx context.Context, source *models.FeedSource) error {
	if _, err := uuid.Parse(source.ID); err != nil {
		return fmt.Errorf("invalid feed source ID format: %w", err)
	}
	if !models.IsValidCategory(source.Category) {
		return fmt.Errorf("invalid feed source category %q", source.Category)
	}

	query := `
		UPDATE feed_sources
		SET name = $2, url = $3, category = $4, enabled = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		source.ID, source.Name, source.URL, source.Category, source.Enabled,
	).Scan(&source.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("failed to update feed source: %w", err)
	}
	return nil
}

func (r *FeedSourceRepository) DeleteFeedSource(ctx context.Context, sourceID string) error {
	if _, err := uuid.Parse(sourceID); err != nil {
		return fmt.Errorf("invalid feed source ID format: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM feed_sources WHERE id = $1`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete feed source: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *FeedSourceRepository) queryFeedSources(ctx context.Context, query string) ([]models.FeedSource, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed sources: %w", err)
	}
	defer rows.Close()

	var sources []models.FeedSource
	for rows.Next() {
		var source models.FeedSource
		if err := rows.Scan(&source.ID, &source.Name, &source.URL, &source.Category,
			&source.Enabled, &source.CreatedAt, &source.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feed source row: %w", err)
		}
		sources = append(sources, source)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed source rows: %w", err)
	}
	if sources == nil {
		sources = []models.FeedSource{}
	}
	return sources, nil
}
