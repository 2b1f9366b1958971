package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/newslinemedia/technews/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	items []RawFeedItem
	err   error
}

func (f *fakeFetcher) FetchFeed(_ context.Context, _ string) ([]RawFeedItem, error) {
	return f.items, f.err
}

type fakeArticleStore struct {
	existing   map[string]bool
	failTitles map[string]bool
	created    []models.Article
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{
		existing:   make(map[string]bool),
		failTitles: make(map[string]bool),
	}
}

func (s *fakeArticleStore) CreateArticle(_ context.Context, article *models.Article) error {
	if s.failTitles[article.Title] {
		return errors.New("insert rejected")
	}
	s.created = append(s.created, *article)
	s.existing[article.SourceURL] = true
	return nil
}

func (s *fakeArticleStore) ExistsBySourceURL(_ context.Context, sourceURL string) (bool, error) {
	return s.existing[sourceURL], nil
}

func techFeed() models.FeedSource {
	return models.FeedSource{
		Name:     "Example",
		URL:      "http://feeds.example.com/rss",
		Category: models.CategoryTechnology,
		Enabled:  true,
	}
}

func TestImportFeedScenarioTwoNewItems(t *testing.T) {
	fetcher := &fakeFetcher{items: []RawFeedItem{
		{Title: "A", Link: "http://x/1"},
		{Title: "B", Link: "http://x/2"},
	}}
	store := newFakeArticleStore()
	imp := NewImporter(fetcher, store, NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.True(t, result.Success)
	assert.Equal(t, "Example", result.FeedName)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Duplicates)

	require.Len(t, store.created, 2)
	assert.Equal(t, "a", store.created[0].Slug)
	assert.Equal(t, "b", store.created[1].Slug)
	assert.Equal(t, "http://x/1", store.created[0].SourceURL)
	assert.True(t, store.created[0].IsAggregated)
	assert.NotEmpty(t, store.created[0].ID)
}

func TestImportFeedSkipsDuplicates(t *testing.T) {
	fetcher := &fakeFetcher{items: []RawFeedItem{
		{Title: "A", Link: "http://x/1"},
		{Title: "B", Link: "http://x/2"},
	}}
	store := newFakeArticleStore()
	store.existing["http://x/1"] = true
	imp := NewImporter(fetcher, store, NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
	require.Len(t, result.Results, 2)
	assert.Equal(t, models.ItemResultReasonDuplicate, result.Results[0].Reason)
	assert.True(t, result.Results[1].Success)
}

func TestImportFeedDedupKeyIsCanonical(t *testing.T) {
	// The feed spells the link differently from how it was first imported;
	// canonicalization must still catch the duplicate.
	fetcher := &fakeFetcher{items: []RawFeedItem{
		{Title: "A", Link: "HTTP://X/1/?utm_source=rss"},
	}}
	store := newFakeArticleStore()
	store.existing["http://x/1"] = true
	imp := NewImporter(fetcher, store, NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
}

func TestImportFeedBoundsItemCount(t *testing.T) {
	var items []RawFeedItem
	for i := 0; i < 50; i++ {
		items = append(items, RawFeedItem{
			Title: fmt.Sprintf("Story %d", i),
			Link:  fmt.Sprintf("http://x/%d", i),
		})
	}
	fetcher := &fakeFetcher{items: items}
	store := newFakeArticleStore()
	imp := NewImporter(fetcher, store, NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 5, result.Imported)
	assert.Len(t, store.created, 5)
}

func TestImportFeedLimitClamping(t *testing.T) {
	var items []RawFeedItem
	for i := 0; i < 50; i++ {
		items = append(items, RawFeedItem{
			Title: fmt.Sprintf("Story %d", i),
			Link:  fmt.Sprintf("http://x/%d", i),
		})
	}

	t.Run("zero limit falls back to default", func(t *testing.T) {
		imp := NewImporter(&fakeFetcher{items: items}, newFakeArticleStore(), NewNormalizer())
		result := imp.ImportFeed(context.Background(), techFeed(), 0)
		assert.Equal(t, DefaultArticlesPerFeed, result.Total)
	})

	t.Run("oversized limit is capped", func(t *testing.T) {
		imp := NewImporter(&fakeFetcher{items: items}, newFakeArticleStore(), NewNormalizer())
		result := imp.ImportFeed(context.Background(), techFeed(), 100)
		assert.Equal(t, MaxArticlesPerFeed, result.Total)
	})
}

func TestImportFeedItemFailureDoesNotAbortFeed(t *testing.T) {
	var items []RawFeedItem
	for i := 1; i <= 5; i++ {
		items = append(items, RawFeedItem{
			Title: fmt.Sprintf("Story %d", i),
			Link:  fmt.Sprintf("http://x/%d", i),
		})
	}
	fetcher := &fakeFetcher{items: items}
	store := newFakeArticleStore()
	store.failTitles["Story 3"] = true
	imp := NewImporter(fetcher, store, NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.True(t, result.Success)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 4, result.Imported)
	require.Len(t, result.Results, 5)
	assert.False(t, result.Results[2].Success)
	assert.NotEmpty(t, result.Results[2].Error)
	assert.True(t, result.Results[3].Success)
	assert.True(t, result.Results[4].Success)
}

func TestImportFeedFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: &FetchError{URL: "http://feeds.example.com/rss", Err: errors.New("connection refused")}}
	imp := NewImporter(fetcher, newFakeArticleStore(), NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.False(t, result.Success)
	assert.Equal(t, "Example", result.FeedName)
	assert.NotEmpty(t, result.Error)
	assert.Zero(t, result.Imported)
}

func TestImportFeedItemWithoutLink(t *testing.T) {
	fetcher := &fakeFetcher{items: []RawFeedItem{{Title: "No link"}}}
	store := newFakeArticleStore()
	imp := NewImporter(fetcher, store, NewNormalizer())

	result := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.True(t, result.Success)
	assert.Zero(t, result.Imported)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Success)
	assert.Empty(t, store.created)
}

func TestImportFeedIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{items: []RawFeedItem{
		{Title: "A", Link: "http://x/1"},
		{Title: "B", Link: "http://x/2"},
	}}
	store := newFakeArticleStore()
	imp := NewImporter(fetcher, store, NewNormalizer())

	first := imp.ImportFeed(context.Background(), techFeed(), 5)
	second := imp.ImportFeed(context.Background(), techFeed(), 5)

	assert.Equal(t, 2, first.Imported)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Duplicates)
	assert.Len(t, store.created, 2)
}
