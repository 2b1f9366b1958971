package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newslinemedia/technews/datastore"
	"github.com/newslinemedia/technews/models"
	"github.com/newslinemedia/technews/webutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	feeds []models.FeedSource
}

func (l *fakeLister) ListEnabled(_ context.Context) ([]models.FeedSource, error) {
	return l.feeds, nil
}

type fakeImporter struct {
	results map[string]models.FeedImportResult
	calls   []string
	limits  []int
}

func (i *fakeImporter) ImportFeed(_ context.Context, feed models.FeedSource, limit int) models.FeedImportResult {
	i.calls = append(i.calls, feed.Name)
	i.limits = append(i.limits, limit)
	if result, ok := i.results[feed.Name]; ok {
		return result
	}
	return models.FeedImportResult{Success: true, FeedName: feed.Name}
}

func allCategoryFeeds() []models.FeedSource {
	return []models.FeedSource{
		{Name: "Tech One", URL: "http://t1/rss", Category: models.CategoryTechnology, Enabled: true},
		{Name: "Tech Two", URL: "http://t2/rss", Category: models.CategoryTechnology, Enabled: true},
		{Name: "Biz One", URL: "http://b1/rss", Category: models.CategoryBusiness, Enabled: true},
		{Name: "News One", URL: "http://n1/rss", Category: models.CategoryNews, Enabled: true},
	}
}

func TestRunImportCycleFiltersByDueCategory(t *testing.T) {
	importer := &fakeImporter{results: map[string]models.FeedImportResult{
		"Tech One": {Success: true, FeedName: "Tech One", Total: 5, Imported: 3, Duplicates: 2},
		"Tech Two": {Success: true, FeedName: "Tech Two", Total: 5, Imported: 5},
	}}
	store := &fakeRotationStore{}
	sched := New(&fakeLister{feeds: allCategoryFeeds()}, importer, NewRotator(store), 5)

	result, err := sched.RunImportCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CategoryTechnology, result.Category)
	assert.Equal(t, models.CategoryBusiness, result.NextCategory)
	assert.Equal(t, []string{"Tech One", "Tech Two"}, importer.calls)
	assert.Equal(t, []int{5, 5}, importer.limits)
	assert.Equal(t, 8, result.TotalImported())
	assert.Equal(t, 2, result.TotalDuplicates())
	assert.Equal(t, 2, result.TotalFeeds())
	assert.Equal(t, 2, result.SuccessfulFeeds())
}

func TestRunImportCycleCommitsWithNoMatchingFeeds(t *testing.T) {
	store := &fakeRotationStore{state: &models.RotationState{
		LastCategory: models.CategoryNews,
		NextCategory: models.CategoryLifestyle,
	}}
	importer := &fakeImporter{}
	sched := New(&fakeLister{feeds: allCategoryFeeds()}, importer, NewRotator(store), 5)

	result, err := sched.RunImportCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.CategoryLifestyle, result.Category)
	assert.Empty(t, importer.calls)
	require.Len(t, store.commits, 1)
	assert.Equal(t, models.CategoryLifestyle, store.commits[0].LastCategory)
}

func TestRunImportCycleRotatesDespiteFeedFailure(t *testing.T) {
	importer := &fakeImporter{results: map[string]models.FeedImportResult{
		"Tech One": {Success: false, FeedName: "Tech One", Error: "fetch failed"},
		"Tech Two": {Success: true, FeedName: "Tech Two", Total: 2, Imported: 2},
	}}
	store := &fakeRotationStore{}
	sched := New(&fakeLister{feeds: allCategoryFeeds()}, importer, NewRotator(store), 5)

	result, err := sched.RunImportCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessfulFeeds())
	assert.Equal(t, 2, result.TotalImported())
	require.Len(t, store.commits, 1)
	assert.Equal(t, models.CategoryTechnology, store.commits[0].LastCategory)
}

func TestRunImportCycleSurfacesCommitFailure(t *testing.T) {
	importer := &fakeImporter{results: map[string]models.FeedImportResult{
		"Tech One": {Success: true, FeedName: "Tech One", Total: 1, Imported: 1},
	}}
	store := &fakeRotationStore{commitErrs: []error{datastore.ErrRotationConflict}}
	sched := New(&fakeLister{feeds: allCategoryFeeds()}, importer, NewRotator(store), 5)

	result, err := sched.RunImportCycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, datastore.ErrRotationConflict)

	// The caller still gets the imports that happened before the commit lost.
	require.NotNil(t, result)
	assert.Equal(t, 1, result.TotalImported())
}

func TestHandleImportCycleResponse(t *testing.T) {
	importer := &fakeImporter{results: map[string]models.FeedImportResult{
		"Tech One": {Success: true, FeedName: "Tech One", Total: 3, Imported: 3},
		"Tech Two": {Success: true, FeedName: "Tech Two", Total: 3, Imported: 2, Duplicates: 1},
	}}
	sched := New(&fakeLister{feeds: allCategoryFeeds()}, importer, NewRotator(&fakeRotationStore{}), 5)

	req := httptest.NewRequest(http.MethodPost, "/scheduler/import", nil)
	rec := httptest.NewRecorder()
	webutil.MakeHandler(sched.HandleImportCycle).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp importCycleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.CategoryTechnology, resp.Category)
	assert.Equal(t, models.CategoryBusiness, resp.NextCategory)
	assert.Equal(t, 2, resp.TotalFeeds)
	assert.Equal(t, 5, resp.TotalImported)
	assert.Equal(t, 1, resp.TotalDuplicates)
	require.Len(t, resp.Details, 2)
}

func TestHandleImportCycleCommitFailureReturns500(t *testing.T) {
	store := &fakeRotationStore{commitErrs: []error{datastore.ErrRotationConflict}}
	sched := New(&fakeLister{feeds: allCategoryFeeds()}, &fakeImporter{}, NewRotator(store), 5)

	req := httptest.NewRequest(http.MethodPost, "/scheduler/import", nil)
	rec := httptest.NewRecorder()
	webutil.MakeHandler(sched.HandleImportCycle).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
