package usecase

import (
	"math"
	"strconv"
	"strings"
)

// literUnits are the unit spellings converted from liters; every other unit,
// known or not, is taken to be milliliters already.
var literUnits = map[string]bool{
	"l":      true,
	"lt":     true,
	"litro":  true,
	"litros": true,
}

// ToMilliliters converts a container size to milliliters.
// Returns nil when value is not finite. Unknown or empty units pass the value through.
func ToMilliliters(value float64, unit string) *float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}

	ml := value
	if literUnits[strings.ToLower(strings.TrimSpace(unit))] {
		ml = value * 1000
	}
	return &ml
}

// FormatVariantLabel renders a size for display: "1,5L" from 1000 mL up, "473ml" below.
// Returns "" for an unknown size.
func FormatVariantLabel(sizeMl *float64) string {
	if sizeMl == nil {
		return ""
	}

	ml := roundTo(*sizeMl, 2)
	if ml >= 1000 {
		liters := strconv.FormatFloat(roundTo(ml/1000, 3), 'f', -1, 64)
		return strings.ReplaceAll(liters, ".", ",") + "L"
	}
	return strconv.FormatFloat(ml, 'f', -1, 64) + "ml"
}

// roundTo rounds half away from zero to the given number of decimals
func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

// roundMoney rounds a monetary amount to cents, treating non-finite values as 0
func roundMoney(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return roundTo(value, 2)
}

// clamp bounds value to [lo, hi]
func clamp(value, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, value))
}
