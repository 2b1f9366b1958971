package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	rh "github.com/newslinemedia/technews/route-handlers"
	"github.com/newslinemedia/technews/scheduler"
	"github.com/newslinemedia/technews/webutil"
)

const (
	apiBasePath         = "/api"
	feedSourcesBasePath = "/feed-sources"
	importFeedPath      = "/import/feed"
	schedulerImportPath = "/scheduler/import"
)

func SetupRoutes(
	feedSourceHandler *rh.FeedSourceHandler,
	importHandler *rh.ImportHandler,
	articleHandler *rh.ArticleHandler,
	sched *scheduler.Scheduler,
	importSecret string,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute)) // import cycles wait on external feeds

	r.Route(apiBasePath, func(r chi.Router) {
		configureFeedSourceRoutes(r, feedSourceHandler)

		// Import results report article IDs; this lets admins inspect what
		// was stored.
		r.Get("/articles/{id}", webutil.MakeHandler(articleHandler.HandleGetArticleByID))

		// Single-feed "import now" is an admin action behind the same secret
		// as the aggregate trigger.
		r.With(RequireImportSecret(importSecret)).
			Post(importFeedPath, webutil.MakeHandler(importHandler.HandleImportFeed))
	})

	// Aggregate trigger, invoked by the external periodic scheduler or by an
	// admin manually.
	r.With(RequireImportSecret(importSecret)).
		Post(schedulerImportPath, webutil.MakeHandler(sched.HandleImportCycle))

	r.Get("/healthz", handleHealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func configureFeedSourceRoutes(r chi.Router, handler *rh.FeedSourceHandler) {
	r.Route(feedSourcesBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetFeedSources))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateFeedSource))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetFeedSourceByID))
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateFeedSource))
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteFeedSource))
		})
	})
}

func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
