package service

import (
	"math"
	"sort"

	"github.com/utafrali/catalogsearch/internal/domain"
)

// Composite score weights and normalization constants.
const (
	weightSimilarity = 0.4
	weightPopularity = 0.4
	weightPrice      = 0.2

	// neutralSimilarity applies to candidates without a text signal (recency
	// fallback), placing them between weak and strong text matches.
	neutralSimilarity = 0.5

	// relevanceScale maps the store's text score into [0,1].
	relevanceScale = 10
)

// filterCandidates narrows candidates by price range and category, order
// preserved. Pure function over the in-memory set; never re-queries the store.
func filterCandidates(candidates []domain.Product, minPrice, maxPrice *float64, category *string) []domain.Product {
	filtered := make([]domain.Product, 0, len(candidates))
	for _, p := range candidates {
		if minPrice != nil && p.Price < *minPrice {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		if category != nil && p.Category != *category {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// maxPopularity returns the largest units-sold value, 0 for an empty map.
func maxPopularity(popularity map[string]int64) int64 {
	var max int64
	for _, v := range popularity {
		if v > max {
			max = v
		}
	}
	return max
}

// scoreCandidates derives similarity, popularity, and price-proximity scores
// per candidate and combines them into the composite final score.
func scoreCandidates(candidates []domain.Product, popularity map[string]int64, maxPop int64, budget *float64) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(candidates))
	for _, p := range candidates {
		pop := popularity[p.ID]

		sim := neutralSimilarity
		if p.Score != nil && *p.Score != 0 {
			sim = *p.Score / relevanceScale
		}

		popScore := 0.0
		if maxPop > 0 {
			popScore = float64(pop) / float64(maxPop)
		}

		priceScore := 1.0
		if budget != nil && *budget > 0 {
			// Not clamped below zero: a price far past the budget ranks the
			// candidate below neutral ones.
			priceScore = 1 - math.Abs(p.Price-*budget)/math.Max(*budget, 1)
		}

		scored = append(scored, domain.ScoredProduct{
			Product:    p,
			Popularity: pop,
			SimScore:   sim,
			FinalScore: weightSimilarity*sim + weightPopularity*popScore + weightPrice*priceScore,
		})
	}
	return scored
}

// sortScored orders the scored set for the requested mode. All sorts are
// stable so ties keep the original candidate order. Unknown modes fall back
// to relevance (final score descending).
func sortScored(scored []domain.ScoredProduct, mode string) {
	switch mode {
	case domain.SortPriceAsc:
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Price < scored[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Price > scored[j].Price })
	case domain.SortPopularity:
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].Popularity > scored[j].Popularity })
	default:
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].FinalScore > scored[j].FinalScore })
	}
}

// paginate slices out the requested page. A skip past the end yields an empty
// result set, never an error.
func paginate(scored []domain.ScoredProduct, page, limit int) *domain.SearchResult {
	total := len(scored)

	skip := (page - 1) * limit
	if skip > total {
		skip = total
	}
	end := skip + limit
	if end > total {
		end = total
	}

	return &domain.SearchResult{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Results: scored[skip:end],
	}
}
