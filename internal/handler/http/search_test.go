package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/repository/memory"
	"github.com/utafrali/catalogsearch/internal/service"
	"github.com/utafrali/catalogsearch/pkg/httputil"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fixture struct {
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	reviews  *memory.ReviewRepository
	users    *memory.UserRepository
	router   *chi.Mux
}

// newFixture wires memory-backed services into a chi router matching the
// production route layout.
func newFixture() *fixture {
	logger := testLogger()

	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository(products)
	reviews := memory.NewReviewRepository()
	users := memory.NewUserRepository()

	searchService := service.NewSearchService(products, orders, 5*time.Second, logger)
	reviewService := service.NewReviewService(reviews, products, nil, logger)
	orderService := service.NewOrderService(orders, users, products, logger)

	searchHandler := NewSearchHandler(searchService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	r := chi.NewRouter()
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

	return &fixture{
		products: products,
		orders:   orders,
		reviews:  reviews,
		users:    users,
		router:   r,
	}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func decodeSearchResult(t *testing.T, rec *httptest.ResponseRecorder) domain.SearchResult {
	t.Helper()
	var resp struct {
		Data domain.SearchResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Data
}

func floatPtr(f float64) *float64 {
	return &f
}

// ============================================================================
// Tests
// ============================================================================

func TestSearchEndpoint_Success(t *testing.T) {
	f := newFixture()

	f.products.Add(domain.Product{Name: "Desk Lamp", Category: "accessories", Price: 35, Score: floatPtr(8), CreatedAt: time.Now().UTC()})
	f.products.Add(domain.Product{Name: "Floor Lamp", Category: "accessories", Price: 80, Score: floatPtr(4), CreatedAt: time.Now().UTC()})

	rec := f.get(t, "/api/v1/search?query=lamp")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeSearchResult(t, rec)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, domain.DefaultLimit, result.Limit)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Desk Lamp", result.Results[0].Name)
}

func TestSearchEndpoint_BudgetAndSort(t *testing.T) {
	f := newFixture()

	f.products.Add(domain.Product{Name: "Cam A", Category: "cameras", Price: 100, Score: floatPtr(5), CreatedAt: time.Now().UTC()})
	f.products.Add(domain.Product{Name: "Cam B", Category: "cameras", Price: 400, Score: floatPtr(5), CreatedAt: time.Now().UTC()})

	rec := f.get(t, "/api/v1/search?query=cam&sort=price_desc&budget=200")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeSearchResult(t, rec)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Cam B", result.Results[0].Name)
	assert.Equal(t, "Cam A", result.Results[1].Name)
}

func TestSearchEndpoint_EmptyQuery(t *testing.T) {
	f := newFixture()

	f.products.Add(domain.Product{Name: "Anything", Category: "audio", Price: 10, CreatedAt: time.Now().UTC()})

	rec := f.get(t, "/api/v1/search")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeSearchResult(t, rec)
	assert.Equal(t, 1, result.Total)
}

func TestSearchEndpoint_InvalidPage(t *testing.T) {
	f := newFixture()

	for _, v := range []string{"abc", "0", "-1", "1.5"} {
		rec := f.get(t, "/api/v1/search?page="+v)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "page=%s", v)
		errResp := decodeError(t, rec)
		assert.Equal(t, "INVALID_PARAMETER", errResp.Code)
	}
}

func TestSearchEndpoint_InvalidLimit(t *testing.T) {
	f := newFixture()

	for _, v := range []string{"abc", "0", "101", "-5"} {
		rec := f.get(t, "/api/v1/search?limit="+v)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", v)
		errResp := decodeError(t, rec)
		assert.Equal(t, "INVALID_PARAMETER", errResp.Code)
	}
}

func TestSearchEndpoint_InvalidNumericFilters(t *testing.T) {
	f := newFixture()

	for _, path := range []string{
		"/api/v1/search?minPrice=cheap",
		"/api/v1/search?maxPrice=expensive",
		"/api/v1/search?budget=lots",
	} {
		rec := f.get(t, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		errResp := decodeError(t, rec)
		assert.Equal(t, "INVALID_PARAMETER", errResp.Code)
	}
}

func TestSearchEndpoint_UnknownSortAccepted(t *testing.T) {
	f := newFixture()

	f.products.Add(domain.Product{Name: "Pad", Category: "accessories", Price: 15, CreatedAt: time.Now().UTC()})

	rec := f.get(t, "/api/v1/search?query=pad&sort=alphabetical")

	// Unknown sort modes fall back to relevance ordering, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchEndpoint_PriceFilter(t *testing.T) {
	f := newFixture()

	f.products.Add(domain.Product{Name: "Stand S", Category: "accessories", Price: 20, CreatedAt: time.Now().UTC()})
	f.products.Add(domain.Product{Name: "Stand L", Category: "accessories", Price: 90, CreatedAt: time.Now().UTC()})

	rec := f.get(t, "/api/v1/search?query=stand&minPrice=50")

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeSearchResult(t, rec)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Stand L", result.Results[0].Name)
}
