package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adega/backend/internal/domain"
)

// packSynonyms maps pack abbreviations found in catalogs and queries to their category
var packSynonyms = map[string]domain.PackCategory{
	"cx":      domain.PackCategoryCaixa,
	"cxa":     domain.PackCategoryCaixa,
	"caixa":   domain.PackCategoryCaixa,
	"dz":      domain.PackCategoryDuzia,
	"duzia":   domain.PackCategoryDuzia,
	"un":      domain.PackCategoryUnidade,
	"unid":    domain.PackCategoryUnidade,
	"unidade": domain.PackCategoryUnidade,
	"fd":      domain.PackCategoryFardo,
	"fardo":   domain.PackCategoryFardo,
}

var (
	packCodeCleanupRegex = regexp.MustCompile(`[^a-z0-9]`)

	// "c/12", "C 12", "c\6"
	packCountSlashRegex = regexp.MustCompile(`(?i)\bc\s*[/\\]?\s*(\d+)`)
	// "12 un", "6un"
	packCountUnitRegex = regexp.MustCompile(`(?i)\b(\d+)\s*un`)
)

// CanonicalPack maps a raw pack code to its category. Unrecognized codes are passed
// through (lowercased) as their own category; an empty code yields the zero category.
func CanonicalPack(code string) domain.PackCategory {
	lowered := strings.ToLower(strings.TrimSpace(code))
	if lowered == "" {
		return domain.PackCategory{}
	}

	if category, ok := packSynonyms[lowered]; ok {
		return category
	}
	if category, ok := packSynonyms[packCodeCleanupRegex.ReplaceAllString(lowered, "")]; ok {
		return category
	}
	return domain.OtherPack(lowered)
}

// FormatPackLabel builds the display label for a pack code, reading the pack
// quantity from the product name for cases and bundles ("Caixa c/ 12").
// Codes other than CX, UN and FD are returned unchanged.
func FormatPackLabel(packCode, originalName string) string {
	if strings.TrimSpace(packCode) == "" {
		return ""
	}

	switch strings.ToUpper(strings.TrimSpace(packCode)) {
	case "CX":
		return withPackQuantity("Caixa", originalName)
	case "UN":
		return "Unidade"
	case "FD":
		return withPackQuantity("Fardo", originalName)
	default:
		return packCode
	}
}

func withPackQuantity(label, name string) string {
	if quantity, ok := extractPackQuantity(name); ok {
		return fmt.Sprintf("%s c/ %d", label, quantity)
	}
	return label
}

// extractPackQuantity finds the unit count of a pack in a product name
func extractPackQuantity(name string) (int, bool) {
	match := packCountSlashRegex.FindStringSubmatch(name)
	if match == nil {
		match = packCountUnitRegex.FindStringSubmatch(name)
	}
	if match == nil {
		return 0, false
	}

	quantity, err := strconv.Atoi(match[1])
	if err != nil || quantity <= 0 {
		return 0, false
	}
	return quantity, true
}
