package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/catalogsearch/internal/domain"
	"github.com/utafrali/catalogsearch/internal/repository"
)

// SearchService implements the ranked catalog search pipeline:
// retrieve -> filter -> aggregate popularity -> score -> sort/paginate.
type SearchService struct {
	products     repository.ProductRepository
	orders       repository.OrderRepository
	storeTimeout time.Duration
	logger       *slog.Logger
}

// NewSearchService creates a new search service. storeTimeout bounds each
// store call (retrieval, aggregation) individually.
func NewSearchService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *SearchService {
	return &SearchService{
		products:     products,
		orders:       orders,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Search runs the full pipeline for one request. Stage failures abort the
// request; no partial results are returned. Missing optional inputs are
// neutral defaults, never errors.
func (s *SearchService) Search(ctx context.Context, query *domain.SearchQuery) (*domain.SearchResult, error) {
	if query.Page <= 0 {
		query.Page = domain.DefaultPage
	}
	if query.Limit <= 0 {
		query.Limit = domain.DefaultLimit
	}
	if query.Limit > domain.MaxLimit {
		query.Limit = domain.MaxLimit
	}

	candidates, err := s.retrieve(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}

	filtered := filterCandidates(candidates, query.MinPrice, query.MaxPrice, query.Category)

	popularity, err := s.aggregatePopularity(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("aggregate popularity: %w", err)
	}

	scored := scoreCandidates(filtered, popularity, maxPopularity(popularity), query.Budget)
	sortScored(scored, query.Sort)

	result := paginate(scored, query.Page, query.Limit)

	s.logger.DebugContext(ctx, "search executed",
		slog.String("query", query.Query),
		slog.Int("candidates", len(candidates)),
		slog.Int("filtered", len(filtered)),
		slog.Int("total", result.Total),
	)

	return result, nil
}

// retrieve obtains the bounded initial candidate set: a text-relevance query
// when a term is given, the recency fallback otherwise.
func (s *SearchService) retrieve(ctx context.Context, term string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if term != "" {
		return s.products.TextSearch(ctx, term, domain.CandidateLimit)
	}
	return s.products.Recent(ctx, domain.CandidateLimit)
}

// aggregatePopularity builds the units-sold map for the filtered candidates.
// An empty candidate set short-circuits without querying the store.
func (s *SearchService) aggregatePopularity(ctx context.Context, filtered []domain.Product) (map[string]int64, error) {
	if len(filtered) == 0 {
		return map[string]int64{}, nil
	}

	ids := make([]string, 0, len(filtered))
	for _, p := range filtered {
		ids = append(ids, p.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.orders.SumQuantityByProduct(ctx, ids)
}
