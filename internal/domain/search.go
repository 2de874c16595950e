package domain

// QuerySizeHint is the container size intended by a free-text query.
// Explicit means a literal "<number><unit>" was found, Inferred means an alias
// phrase ("latao", "long neck") supplied it. A nil SizeMl carries no size signal.
type QuerySizeHint struct {
	SizeMl   *float64 `json:"sizeMl"`
	Explicit bool     `json:"explicit"`
	Inferred bool     `json:"inferred"`
}

// HasSize reports whether the hint carries a size
func (h QuerySizeHint) HasSize() bool {
	return h.SizeMl != nil
}

// SearchResult is one ranked catalog match
type SearchResult struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Variant   string  `json:"variant,omitempty"`
	Pack      string  `json:"pack,omitempty"`
	Score     float64 `json:"score"`
}

// SearchResponse is the output of a catalog search
type SearchResponse struct {
	Query   string         `json:"query"`
	Matches []SearchResult `json:"matches"`
}
