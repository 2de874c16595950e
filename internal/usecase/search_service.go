package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/adega/backend/internal/domain"
	"github.com/adega/backend/internal/metrics"
)

// Composite score weights
const (
	tokenWeight = 0.60
	sizeWeight  = 0.25
	packWeight  = 0.15
)

// Sub-score constants
const (
	neutralSizeScore     = 0.7   // query names no size
	unknownItemSizeScore = 0.5   // query names a size, item has none
	sizeDeviationScaleMl = 100.0 // every 100 mL of deviation roughly halves closeness
	neutralPackScore     = 0.5   // query names no pack
	brandMatchBonus      = 0.1
	maxBrandBonus        = 0.2
	defaultSearchLimit   = 5
	scoreDecimals        = 4
)

// brands are catalog brand names that earn a bonus when the query names them
var brands = map[string]bool{
	"brahma":     true,
	"skol":       true,
	"spaten":     true,
	"heineken":   true,
	"beck":       true,
	"budweiser":  true,
	"antarctica": true,
}

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	DefaultLimit       int
	EnableDebugLogging bool
}

// SearchService ranks catalog items against free-text queries.
// Every query scans the whole catalog; there is no inverted index, which is
// fine for catalogs of a few thousand items.
type SearchService struct {
	catalog            *domain.Catalog
	defaultLimit       int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewSearchService creates a new search service over a built catalog
func NewSearchService(catalog *domain.Catalog, config SearchConfig, logger *zap.Logger) *SearchService {
	limit := config.DefaultLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SearchService{
		catalog:            catalog,
		defaultLimit:       limit,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// queryFeatures is everything extracted from a query once, before scanning the catalog
type queryFeatures struct {
	normalized string
	tokens     domain.TokenSet
	brands     []string
	size       domain.QuerySizeHint
	pack       domain.PackCategory
}

// scoredItem pairs a catalog item with its composite score
type scoredItem struct {
	item  *domain.CatalogItem
	score float64
}

// Search scores every catalog item against the query and returns the best
// matches, highest score first. A limit <= 0 uses the configured default.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (*domain.SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	features := parseQuery(query)

	if s.enableDebugLogging {
		s.logger.Debug("Search query parsed",
			zap.String("query", query),
			zap.String("normalized", features.normalized),
			zap.Strings("tokens", features.tokens.Sorted()),
			zap.Any("size", features.size),
			zap.String("pack", features.pack.String()),
		)
	}

	var scored []scoredItem
	for _, item := range s.catalog.Items() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tokenScore := computeTokenScore(features, item.Tokens)
		sizeScore := computeSizeScore(features.size, item.SizeMl)
		packScore := computePackScore(features.pack, item.PackCanonical)
		score := compositeScore(tokenScore, sizeScore, packScore)

		if s.enableDebugLogging {
			s.logger.Debug("Search candidate scored",
				zap.String("name", item.Name),
				zap.Float64("token", tokenScore),
				zap.Float64("size", sizeScore),
				zap.Float64("pack", packScore),
				zap.Float64("score", score),
			)
		}

		if score <= 0 {
			continue
		}
		scored = append(scored, scoredItem{item: item, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	matches := make([]domain.SearchResult, 0, len(scored))
	for _, entry := range scored {
		matches = append(matches, domain.SearchResult{
			ProductID: entry.item.ProductID(),
			Name:      entry.item.Name,
			Variant:   entry.item.VariantLabel,
			Pack:      entry.item.PackLabel,
			Score:     roundTo(entry.score, scoreDecimals),
		})
	}

	metrics.ObserveSearch(len(matches))

	return &domain.SearchResponse{
		Query:   features.normalized,
		Matches: matches,
	}, nil
}

// parseQuery extracts tokens, brands, size and pack hints from the raw query
func parseQuery(query string) queryFeatures {
	tokens := Tokenize(query)
	set := UniqueTokens(tokens)

	var queryBrands []string
	for token := range set {
		if brands[token] {
			queryBrands = append(queryBrands, token)
		}
	}

	return queryFeatures{
		normalized: Normalize(query),
		tokens:     set,
		brands:     queryBrands,
		size:       ParseQuerySize(query),
		pack:       DetectPackKeyword(tokens),
	}
}

// compositeScore weighs the three sub-scores into [0, 1]
func compositeScore(tokenScore, sizeScore, packScore float64) float64 {
	return clamp(tokenWeight*tokenScore+sizeWeight*sizeScore+packWeight*packScore, 0, 1)
}

// computeTokenScore is the Jaccard similarity of the token sets plus a capped
// bonus for each query brand the item carries
func computeTokenScore(features queryFeatures, itemTokens domain.TokenSet) float64 {
	overlap := jaccardSimilarity(features.tokens, itemTokens)

	brandMatches := 0
	for _, brand := range features.brands {
		if itemTokens.Has(brand) {
			brandMatches++
		}
	}
	bonus := float64(brandMatches) * brandMatchBonus
	if bonus > maxBrandBonus {
		bonus = maxBrandBonus
	}

	return clamp(overlap+bonus, 0, 1)
}

// jaccardSimilarity returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty
func jaccardSimilarity(a, b domain.TokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if b.Has(token) {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// computeSizeScore rewards items whose size is close to the query size
func computeSizeScore(querySize domain.QuerySizeHint, itemSizeMl *float64) float64 {
	if !querySize.HasSize() {
		return neutralSizeScore
	}
	if itemSizeMl == nil {
		return unknownItemSizeScore
	}

	delta := *querySize.SizeMl - *itemSizeMl
	if delta < 0 {
		delta = -delta
	}
	return clamp(1/(1+delta/sizeDeviationScaleMl), 0, 1)
}

// computePackScore is 1 on a pack match, 0 on a mismatch, neutral without a query pack
func computePackScore(queryPack, itemPack domain.PackCategory) float64 {
	if queryPack.IsZero() {
		return neutralPackScore
	}
	if queryPack.Matches(itemPack) {
		return 1
	}
	return 0
}
