package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalogsearch/internal/service"
	"github.com/utafrali/catalogsearch/pkg/health"
	"github.com/utafrali/catalogsearch/pkg/httputil"
	"github.com/utafrali/catalogsearch/pkg/middleware"
)

// NewRouter creates a chi router with all service routes registered.
func NewRouter(
	searchService *service.SearchService,
	reviewService *service.ReviewService,
	orderService *service.OrderService,
	healthHandler *health.Handler,
	corsConfig middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog-search"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(searchService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", searchHandler.Search)

		r.Route("/products/{id}/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListByProduct)
			r.With(ContentTypeJSON).Post("/", reviewHandler.Create)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/top-products", orderHandler.TopProducts)
			r.Get("/{id}", orderHandler.Get)
		})

		r.Get("/users/{id}/orders", orderHandler.ListUserOrders)
	})

	return r
}

// ContentTypeJSON rejects bodies that are not declared as JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct != "" && !strings.HasPrefix(ct, "application/json") {
			httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "UNSUPPORTED_MEDIA_TYPE",
					Message: "Content-Type must be application/json",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
