package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/service"
	"github.com/utafrali/catalogsearch/pkg/httputil"
)

// SearchHandler handles HTTP requests for the catalog search endpoint.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := &domain.SearchQuery{
		Query: strings.TrimSpace(params.Get("query")),
		Sort:  params.Get("sort"),
		Page:  domain.DefaultPage,
		Limit: domain.DefaultLimit,
	}

	if v := params.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			writeParamError(w, "page must be an integer >= 1")
			return
		}
		query.Page = page
	}
	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > domain.MaxLimit {
			writeParamError(w, "limit must be an integer between 1 and 100")
			return
		}
		query.Limit = limit
	}
	if v := params.Get("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeParamError(w, "minPrice must be a valid number")
			return
		}
		query.MinPrice = &price
	}
	if v := params.Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeParamError(w, "maxPrice must be a valid number")
			return
		}
		query.MaxPrice = &price
	}
	if v := params.Get("budget"); v != "" {
		budget, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeParamError(w, "budget must be a valid number")
			return
		}
		query.Budget = &budget
	}
	if v := params.Get("category"); v != "" {
		query.Category = &v
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

func writeParamError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}
