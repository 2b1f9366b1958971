package ingestion

import (
	"context"

	"github.com/google/uuid"
	"github.com/newslinemedia/technews/models"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultArticlesPerFeed bounds how much of a feed's backlog one cycle
	// will consider.
	DefaultArticlesPerFeed = 5
	MaxArticlesPerFeed     = 20
)

// Fetcher retrieves one feed document and parses it into raw items.
type Fetcher interface {
	FetchFeed(ctx context.Context, feedURL string) ([]RawFeedItem, error)
}

// ArticleStore is the persistence surface the importer needs.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error)
}

// Importer runs the fetch, normalize, dedup, persist pipeline for one feed.
type Importer struct {
	fetcher    Fetcher
	articles   ArticleStore
	normalizer *Normalizer
}

func NewImporter(fetcher Fetcher, articles ArticleStore, normalizer *Normalizer) *Importer {
	return &Importer{
		fetcher:    fetcher,
		articles:   articles,
		normalizer: normalizer,
	}
}

// ImportFeed imports up to limit items from one feed. A fetch or parse
// failure fails the whole feed; anything that goes wrong with a single item
// is recorded in the result and the loop moves on. Failures never escape as
// errors so a broken feed cannot abort a multi-feed run.
func (imp *Importer) ImportFeed(ctx context.Context, feed models.FeedSource, limit int) models.FeedImportResult {
	if limit <= 0 {
		limit = DefaultArticlesPerFeed
	}
	if limit > MaxArticlesPerFeed {
		limit = MaxArticlesPerFeed
	}

	items, err := imp.fetcher.FetchFeed(ctx, feed.URL)
	if err != nil {
		log.WithFields(log.Fields{
			"feed": feed.Name,
			"url":  feed.URL,
		}).Warnf("Feed fetch failed: %v", err)
		return models.FeedImportResult{
			Success:  false,
			FeedName: feed.Name,
			Error:    err.Error(),
		}
	}

	if len(items) > limit {
		items = items[:limit]
	}

	result := models.FeedImportResult{
		Success:  true,
		FeedName: feed.Name,
		Total:    len(items),
		Results:  make([]models.ItemImportResult, 0, len(items)),
	}

	for _, item := range items {
		result.Results = append(result.Results, imp.importItem(ctx, feed, item, &result))
	}

	log.WithFields(log.Fields{
		"feed":       feed.Name,
		"category":   feed.Category,
		"total":      result.Total,
		"imported":   result.Imported,
		"duplicates": result.Duplicates,
	}).Info("Feed import finished")
	return result
}

func (imp *Importer) importItem(ctx context.Context, feed models.FeedSource, item RawFeedItem, result *models.FeedImportResult) models.ItemImportResult {
	if item.Link == "" {
		return models.ItemImportResult{Success: false, Title: item.Title, Error: "item has no link"}
	}

	sourceURL := CanonicalizeSourceURL(item.Link)
	exists, err := imp.articles.ExistsBySourceURL(ctx, sourceURL)
	if err != nil {
		log.Warnf("Duplicate check failed for %s: %v", sourceURL, err)
		return models.ItemImportResult{Success: false, Title: item.Title, Error: err.Error()}
	}
	if exists {
		duplicateSkips.Inc()
		result.Duplicates++
		return models.ItemImportResult{Success: false, Title: item.Title, Reason: models.ItemResultReasonDuplicate}
	}

	article := imp.normalizer.Normalize(item, feed.Name, feed.Category)
	article.ID = uuid.NewString()

	if err := imp.articles.CreateArticle(ctx, &article); err != nil {
		log.Warnf("Failed to persist article %q from %s: %v", article.Title, feed.Name, err)
		return models.ItemImportResult{Success: false, Title: item.Title, Error: err.Error()}
	}

	articlesImported.WithLabelValues(string(feed.Category)).Inc()
	result.Imported++
	return models.ItemImportResult{Success: true, ID: article.ID, Title: article.Title}
}
