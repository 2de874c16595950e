package usecase

import (
	"testing"

	"github.com/adega/backend/internal/domain"
)

func TestCanonicalPack(t *testing.T) {
	tests := []struct {
		code string
		want domain.PackCategory
	}{
		{"CX", domain.PackCategoryCaixa},
		{" cxa ", domain.PackCategoryCaixa},
		{"Caixa", domain.PackCategoryCaixa},
		{"C.X.", domain.PackCategoryCaixa},
		{"DZ", domain.PackCategoryDuzia},
		{"duzia", domain.PackCategoryDuzia},
		{"un", domain.PackCategoryUnidade},
		{"UNID", domain.PackCategoryUnidade},
		{"Unidade", domain.PackCategoryUnidade},
		{"FD", domain.PackCategoryFardo},
		{"fardo", domain.PackCategoryFardo},
		{"PCT", domain.OtherPack("pct")},
		{"Kit 3", domain.OtherPack("kit 3")},
		{"", domain.PackCategory{}},
		{"   ", domain.PackCategory{}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := CanonicalPack(tt.code); got != tt.want {
				t.Errorf("CanonicalPack(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatPackLabel(t *testing.T) {
	tests := []struct {
		name     string
		packCode string
		itemName string
		want     string
	}{
		{"case with slash count", "CX", "Cerveja Skol Lata 473ml c/12", "Caixa c/ 12"},
		{"case with spaced count", "CX", "Cerveja Skol C 6", "Caixa c/ 6"},
		{"case with backslash count", "cx", `Cerveja Brahma c\24`, "Caixa c/ 24"},
		{"case with spaced slash", "CX", "Cerveja Brahma c / 15", "Caixa c/ 15"},
		{"case with unit count", "CX", "Cerveja Brahma 12 un", "Caixa c/ 12"},
		{"case without count", "CX", "Cerveja Brahma Lata", "Caixa"},
		{"unit ignores count", "UN", "Cerveja Skol c/12", "Unidade"},
		{"bundle with count", "FD", "Agua Mineral Fardo c/6", "Fardo c/ 6"},
		{"bundle without count", "FD", "Agua Mineral", "Fardo"},
		{"unknown code unchanged", "PCT", "Salgadinho", "PCT"},
		{"dozen code unchanged", "DZ", "Ovos", "DZ"},
		{"empty code", "", "Cerveja Skol c/12", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPackLabel(tt.packCode, tt.itemName); got != tt.want {
				t.Errorf("FormatPackLabel(%q, %q) = %q, want %q", tt.packCode, tt.itemName, got, tt.want)
			}
		})
	}
}

func TestExtractPackQuantity(t *testing.T) {
	if _, ok := extractPackQuantity("Cerveja c/0"); ok {
		t.Error("zero count should not be a pack quantity")
	}
	if n, ok := extractPackQuantity("Refrigerante 6un"); !ok || n != 6 {
		t.Errorf("extractPackQuantity() = %d, %v, want 6, true", n, ok)
	}
}
