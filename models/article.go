package models

import "time"

// ArticleStatus defines the publication state of an article.
type ArticleStatus string

const (
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusDraft     ArticleStatus = "draft"
)

// Article is a persisted story. Aggregated articles are created by the import
// pipeline and are indistinguishable from manually authored ones downstream;
// SourceURL is only set for aggregated content and acts as the dedup key.
type Article struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	Category      Category      `json:"category"`
	Author        string        `json:"author"`
	FeaturedImage string        `json:"featured_image,omitempty"`
	Status        ArticleStatus `json:"status"`
	Featured      bool          `json:"featured"`
	SourceURL     string        `json:"source_url,omitempty"`
	SourceName    string        `json:"source_name,omitempty"`
	IsAggregated  bool          `json:"is_aggregated"`
	PublishedAt   time.Time     `json:"published_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Views         int           `json:"views"`
}
