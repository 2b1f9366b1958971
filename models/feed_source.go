package models

import "time"

// FeedSource is a configured external RSS/Atom feed the importer pulls from.
type FeedSource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Category  Category  `json:"category"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
