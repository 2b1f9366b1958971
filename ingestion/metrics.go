package ingestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "technews_feed_fetch_failures_total",
		Help: "Number of feed fetch attempts that failed at the HTTP layer",
	})

	feedParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "technews_feed_parse_failures_total",
		Help: "Number of feed responses that could not be parsed as RSS/Atom",
	})

	articlesImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "technews_articles_imported_total",
		Help: "Number of aggregated articles persisted, by category",
	}, []string{"category"})

	duplicateSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "technews_duplicate_items_skipped_total",
		Help: "Number of feed items skipped because their source URL was already imported",
	})
)
