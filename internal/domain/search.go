package domain

// Sort options for search results.
const (
	SortRelevance  = "relevance"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortPopularity = "popularity"
)

// Search pipeline bounds.
const (
	// CandidateLimit caps the initial retrieval set, for both the text-search
	// and the recency fallback path.
	CandidateLimit = 200

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SearchQuery holds all parameters for a catalog search request.
// Nil optional fields mean "no constraint".
type SearchQuery struct {
	Query    string   `json:"query"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
	Category *string  `json:"category,omitempty"`
	Budget   *float64 `json:"budget,omitempty"`
	Sort     string   `json:"sort"`
	Page     int      `json:"page"`
	Limit    int      `json:"limit"`
}

// ScoredProduct is a candidate that passed retrieval and filtering, carrying
// the derived ranking signals. It exists only for the duration of one search
// request.
type ScoredProduct struct {
	Product
	Popularity int64   `json:"popularity"`
	SimScore   float64 `json:"simScore"`
	FinalScore float64 `json:"finalScore"`
}

// SearchResult is the paginated search response payload.
type SearchResult struct {
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Total   int             `json:"total"`
	Results []ScoredProduct `json:"results"`
}
