package ingestion

import (
	"context"
	"fmt"

	"github.com/newslinemedia/technews/models"
)

// FeedSourceStore is the persistence surface the registry needs.
type FeedSourceStore interface {
	CreateFeedSource(ctx context.Context, source *models.FeedSource) error
	GetFeedSourceByID(ctx context.Context, sourceID string) (*models.FeedSource, error)
	GetFeedSources(ctx context.Context) ([]models.FeedSource, error)
	GetEnabledFeedSources(ctx context.Context) ([]models.FeedSource, error)
	CountFeedSources(ctx context.Context) (int, error)
	UpdateFeedSource(ctx context.Context, source *models.FeedSource) error
	DeleteFeedSource(ctx context.Context, sourceID string) error
}

// FeedRegistry manages the set of configured feed sources. When nothing has
// been configured at all it serves a built-in default set, so a fresh install
// imports something useful without any admin action.
type FeedRegistry struct {
	store FeedSourceStore
}

func NewFeedRegistry(store FeedSourceStore) *FeedRegistry {
	return &FeedRegistry{store: store}
}

// ListEnabled returns all enabled feeds. The defaults apply only when the
// store holds zero feeds total; once an admin has configured anything, even
// all-disabled, the configured set is authoritative.
func (fr *FeedRegistry) ListEnabled(ctx context.Context) ([]models.FeedSource, error) {
	total, err := fr.store.CountFeedSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count configured feeds: %w", err)
	}
	if total == 0 {
		return DefaultFeedSources(), nil
	}
	return fr.store.GetEnabledFeedSources(ctx)
}

func (fr *FeedRegistry) ListAll(ctx context.Context) ([]models.FeedSource, error) {
	return fr.store.GetFeedSources(ctx)
}

func (fr *FeedRegistry) Get(ctx context.Context, id string) (*models.FeedSource, error) {
	return fr.store.GetFeedSourceByID(ctx, id)
}

func (fr *FeedRegistry) Create(ctx context.Context, source *models.FeedSource) error {
	return fr.store.CreateFeedSource(ctx, source)
}

func (fr *FeedRegistry) Update(ctx context.Context, source *models.FeedSource) error {
	return fr.store.UpdateFeedSource(ctx, source)
}

func (fr *FeedRegistry) Delete(ctx context.Context, id string) error {
	return fr.store.DeleteFeedSource(ctx, id)
}

// DefaultFeedSources is the zero-configuration feed set, spanning every
// category. These are not persisted; they are served directly until an admin
// configures real sources.
func DefaultFeedSources() []models.FeedSource {
	defaults := []struct {
		name     string
		url      string
		category models.Category
	}{
		{"TechCrunch", "https://techcrunch.com/feed/", models.CategoryTechnology},
		{"The Verge", "https://www.theverge.com/rss/index.xml", models.CategoryTechnology},
		{"Wired", "https://www.wired.com/feed/rss", models.CategoryTechnology},
		{"CNBC Business", "https://www.cnbc.com/id/10001147/device/rss/rss.html", models.CategoryBusiness},
		{"BBC Business", "https://feeds.bbci.co.uk/news/business/rss.xml", models.CategoryBusiness},
		{"Financial Post", "https://financialpost.com/feed", models.CategoryBusiness},
		{"BBC News", "https://feeds.bbci.co.uk/news/rss.xml", models.CategoryNews},
		{"Al Jazeera", "https://www.aljazeera.com/xml/rss/all.xml", models.CategoryNews},
		{"NPR News", "https://feeds.npr.org/1001/rss.xml", models.CategoryNews},
		{"Lifehacker", "https://lifehacker.com/rss", models.CategoryLifestyle},
		{"Vogue", "https://www.vogue.com/feed/rss", models.CategoryLifestyle},
		{"GQ", "https://www.gq.com/feed/rss", models.CategoryLifestyle},
	}

	sources := make([]models.FeedSource, 0, len(defaults))
	for _, d := range defaults {
		sources = append(sources, models.FeedSource{
			Name:     d.name,
			URL:      d.url,
			Category: d.category,
			Enabled:  true,
		})
	}
	return sources
}
