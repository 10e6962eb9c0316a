package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/geoweather-service/internal/docs"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	RequestTimeout time.Duration
	Limiter        *rate.Limiter // nil disables rate limiting
}

// NewRouter wires every route: the weather API, index, docs, health and metrics.
func NewRouter(h *Handler, logger *zap.Logger, cfg RouterConfig) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(RequestLoggingMiddleware)
	router.Use(MetricsMiddleware)

	router.HandleFunc("/", h.GetIndex).Methods(http.MethodGet)
	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	router.HandleFunc("/api-docs/doc.json", serveDoc).Methods(http.MethodGet)
	router.Handle("/api-docs", http.RedirectHandler("/api-docs/index.html", http.StatusMovedPermanently))
	router.Handle("/api-docs/", http.RedirectHandler("/api-docs/index.html", http.StatusMovedPermanently))
	router.PathPrefix("/api-docs/").Handler(httpSwagger.Handler(httpSwagger.URL("/api-docs/doc.json")))

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(RateLimitMiddleware(cfg.Limiter))
	if cfg.RequestTimeout > 0 {
		apiRouter.Use(TimeoutMiddleware(cfg.RequestTimeout))
	}
	apiRouter.HandleFunc("/weather", h.GetWeather).Methods(http.MethodGet)

	// mux skips middleware for unmatched requests, so wrap these explicitly.
	wrap := func(next http.Handler) http.Handler {
		return CorrelationIDMiddleware(logger)(RequestLoggingMiddleware(MetricsMiddleware(next)))
	}
	router.NotFoundHandler = wrap(NotFoundHandler())
	router.MethodNotAllowedHandler = wrap(MethodNotAllowedHandler())

	return router
}

func serveDoc(w http.ResponseWriter, r *http.Request) {
	doc := docs.SwaggerInfo.ReadDoc()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
