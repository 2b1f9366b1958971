package models

import "github.com/samber/lo"

// ItemResultReasonDuplicate marks an item skipped because an article with the
// same source URL already exists. Routine, not an error.
const ItemResultReasonDuplicate = "duplicate"

// ItemImportResult records the outcome for a single feed item.
type ItemImportResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FeedImportResult summarizes one feed's import attempt. Success is false only
// when the feed itself could not be fetched or parsed; individual item
// failures are captured in Results without failing the feed.
type FeedImportResult struct {
	Success    bool               `json:"success"`
	FeedName   string             `json:"feedName"`
	Total      int                `json:"total"`
	Imported   int                `json:"imported"`
	Duplicates int                `json:"duplicates"`
	Error      string             `json:"error,omitempty"`
	Results    []ItemImportResult `json:"results,omitempty"`
}

// CycleResult aggregates one full import cycle across a category's feeds.
type CycleResult struct {
	Category     Category           `json:"category"`
	NextCategory Category           `json:"nextCategory"`
	Results      []FeedImportResult `json:"results"`
}

func (c *CycleResult) TotalFeeds() int {
	return len(c.Results)
}

func (c *CycleResult) SuccessfulFeeds() int {
	return lo.CountBy(c.Results, func(r FeedImportResult) bool { return r.Success })
}

func (c *CycleResult) TotalImported() int {
	return lo.SumBy(c.Results, func(r FeedImportResult) int { return r.Imported })
}

func (c *CycleResult) TotalDuplicates() int {
	return lo.SumBy(c.Results, func(r FeedImportResult) int { return r.Duplicates })
}
