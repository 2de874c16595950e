package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/adega/backend/internal/domain"
)

// Default container sizes implied by colloquial names
const (
	lataoSizeMl    = 473.0
	longNeckSizeMl = 355.0
)

// Compiled regex patterns for query parsing
var (
	// Matches explicit sizes like "473ml", "1,5 l", "2 litros"
	explicitSizePattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(litros|litro|ml|l)\b`)

	// Everything except letters, digits, decimal separators and whitespace
	sizeFoldRegex = regexp.MustCompile(`[^a-z0-9.,\s]`)

	// Matches a token that is only a number
	bareNumberPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// sizeAlias maps colloquial container names to a size
type sizeAlias struct {
	name     string
	patterns []string
	sizeMl   float64
}

var sizeAliases = []sizeAlias{
	{name: "latao", patterns: []string{"latão", "lata grande", "latão grande"}, sizeMl: lataoSizeMl},
	{name: "long neck", patterns: []string{"long neck", "longneck", "long-neck"}, sizeMl: longNeckSizeMl},
}

// normalizedAliasPatterns holds every alias pattern already normalized, in declaration order
var normalizedAliasPatterns = func() []sizeAlias {
	out := make([]sizeAlias, 0, len(sizeAliases))
	for _, alias := range sizeAliases {
		normalized := make([]string, 0, len(alias.patterns))
		for _, pattern := range alias.patterns {
			if p := Normalize(pattern); p != "" {
				normalized = append(normalized, p)
			}
		}
		out = append(out, sizeAlias{name: alias.name, patterns: normalized, sizeMl: alias.sizeMl})
	}
	return out
}()

// packQuantityKeywords mark a neighbouring bare number as a unit count ("c 12", "12 un")
// rather than a container size
var packQuantityKeywords = map[string]bool{
	"cx": true, "cxa": true, "caixa": true,
	"dz": true, "duzia": true,
	"un": true, "unid": true, "unidade": true,
	"fd": true, "fardo": true,
	"pack": true, "c": true, "com": true,
}

// ParseQuerySize extracts the intended container size from a free-text query.
// An explicit "<number><unit>" wins over an alias phrase, which wins over a bare
// number that is not next to a pack keyword.
func ParseQuerySize(query string) domain.QuerySizeHint {
	if size, ok := explicitQuerySize(query); ok {
		return domain.QuerySizeHint{SizeMl: size, Explicit: true}
	}

	normalized := Normalize(query)

	if size, ok := aliasQuerySize(normalized); ok {
		return domain.QuerySizeHint{SizeMl: &size, Inferred: true}
	}

	if size, ok := bareQuerySize(normalized); ok {
		return domain.QuerySizeHint{SizeMl: &size}
	}

	return domain.QuerySizeHint{}
}

// explicitQuerySize looks for a number followed by a volume unit. Decimal
// separators survive folding so "1,5l" reads as 1500 mL.
func explicitQuerySize(query string) (*float64, bool) {
	folded := sizeFoldRegex.ReplaceAllString(strings.ToLower(removeDiacritics(query)), " ")

	match := explicitSizePattern.FindStringSubmatch(folded)
	if match == nil {
		return nil, false
	}

	value, err := strconv.ParseFloat(strings.Replace(match[1], ",", ".", 1), 64)
	if err != nil {
		return nil, false
	}

	size := ToMilliliters(value, match[2])
	return size, size != nil
}

// aliasQuerySize returns the size of the first alias contained in the normalized query
func aliasQuerySize(normalizedQuery string) (float64, bool) {
	for _, alias := range normalizedAliasPatterns {
		for _, pattern := range alias.patterns {
			if strings.Contains(normalizedQuery, pattern) {
				return alias.sizeMl, true
			}
		}
	}
	return 0, false
}

// bareQuerySize returns the first standalone number whose neighbours are not pack keywords
func bareQuerySize(normalizedQuery string) (float64, bool) {
	if normalizedQuery == "" {
		return 0, false
	}

	tokens := strings.Split(normalizedQuery, " ")
	for i, token := range tokens {
		if !bareNumberPattern.MatchString(token) {
			continue
		}
		if i > 0 && packQuantityKeywords[tokens[i-1]] {
			continue
		}
		if i+1 < len(tokens) && packQuantityKeywords[tokens[i+1]] {
			continue
		}

		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}

// DetectPackKeyword returns the category of the first query token that is a pack synonym
func DetectPackKeyword(queryTokens []string) domain.PackCategory {
	for _, token := range queryTokens {
		if category, ok := packSynonyms[token]; ok {
			return category
		}
	}
	return domain.PackCategory{}
}
