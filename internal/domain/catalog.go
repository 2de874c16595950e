package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Number is a catalog numeric field that may arrive as a JSON number, a numeric
// string or null. Valid is false when the value is missing or not a finite number.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf returns a valid Number holding v (invalid if v is not finite)
func NumberOf(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// UnmarshalJSON never fails: anything that is not a finite number becomes invalid.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil
		}
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*n = NumberOf(value)
	return nil
}

// MarshalJSON writes null for invalid numbers
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// RawCatalogRecord is one entry of the catalog source before normalization.
// Every field is optional on the wire; unknown fields are kept in Extra verbatim.
type RawCatalogRecord struct {
	ItemPlatformID     string
	Name               string
	ContainerItemSize  Number
	ContainerUnit      string
	PackName           string
	Price              Number
	ProductSKU         string
	SourceVendorItemID string
	Extra              map[string]json.RawMessage
}

// UnmarshalJSON decodes a record leniently: identifiers given as JSON numbers are
// kept as their literal text, and type mismatches degrade to the zero value.
func (r *RawCatalogRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = RawCatalogRecord{}
	for key, raw := range fields {
		switch key {
		case "item_platform_id":
			r.ItemPlatformID = rawString(raw)
		case "name":
			r.Name = rawString(raw)
		case "container_item_size":
			_ = r.ContainerItemSize.UnmarshalJSON(raw)
		case "container_unit_of_measurement":
			r.ContainerUnit = rawString(raw)
		case "pack_name":
			r.PackName = rawString(raw)
		case "price":
			_ = r.Price.UnmarshalJSON(raw)
		case "product_sku":
			r.ProductSKU = rawString(raw)
		case "source_vendor_item_id":
			r.SourceVendorItemID = rawString(raw)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]json.RawMessage)
			}
			r.Extra[key] = raw
		}
	}
	return nil
}

// rawString accepts a JSON string or number; anything else is empty
func rawString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch {
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		return string(trimmed)
	default:
		return ""
	}
}

// PackKind enumerates the canonical pack categories
type PackKind int

const (
	PackNone PackKind = iota
	PackCaixa
	PackDuzia
	PackUnidade
	PackFardo
	// PackOther is an unrecognized pack code passed through as its own category
	PackOther
)

// PackCategory is the canonical pack of an item or query. The zero value means
// no pack information.
type PackCategory struct {
	Kind PackKind
	raw  string
}

var (
	PackCategoryCaixa   = PackCategory{Kind: PackCaixa}
	PackCategoryDuzia   = PackCategory{Kind: PackDuzia}
	PackCategoryUnidade = PackCategory{Kind: PackUnidade}
	PackCategoryFardo   = PackCategory{Kind: PackFardo}
)

// OtherPack wraps an unrecognized, already lowercased pack code
func OtherPack(code string) PackCategory {
	if code == "" {
		return PackCategory{}
	}
	return PackCategory{Kind: PackOther, raw: code}
}

// String returns the canonical category name ("" for no pack)
func (p PackCategory) String() string {
	switch p.Kind {
	case PackCaixa:
		return "caixa"
	case PackDuzia:
		return "duzia"
	case PackUnidade:
		return "unidade"
	case PackFardo:
		return "fardo"
	case PackOther:
		return p.raw
	default:
		return ""
	}
}

// IsZero reports whether no pack is known
func (p PackCategory) IsZero() bool {
	return p.Kind == PackNone
}

// Matches reports whether both categories are known and equal
func (p PackCategory) Matches(other PackCategory) bool {
	if p.IsZero() || other.IsZero() {
		return false
	}
	return p == other
}

// MarshalJSON writes the canonical name, or null when no pack is known
func (p PackCategory) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

// TokenSet is an unordered, deduplicated set of search tokens
type TokenSet map[string]struct{}

// NewTokenSet builds a set from tokens
func NewTokenSet(tokens ...string) TokenSet {
	set := make(TokenSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Has reports membership
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Sorted returns the tokens in lexical order
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CatalogItem is a normalized, searchable catalog record. It is never mutated
// after the catalog is built.
type CatalogItem struct {
	ItemID             string
	Name               string
	NormalizedName     string
	Tokens             TokenSet
	ContainerItemSize  *float64
	ContainerUnit      string
	SizeMl             *float64
	PackCode           string
	PackCanonical      PackCategory
	PackLabel          string
	VariantLabel       string
	Price              float64
	PriceMissing       bool
	ProductSKU         string
	SourceVendorItemID string
	Extra              map[string]json.RawMessage
}

// ProductID prefers the SKU and falls back to the vendor item id
func (i *CatalogItem) ProductID() string {
	if i.ProductSKU != "" {
		return i.ProductSKU
	}
	return i.SourceVendorItemID
}

// Catalog is the in-memory searchable catalog plus its item id index.
// It is built once and read-only afterwards, so concurrent readers need no locking.
type Catalog struct {
	items        []*CatalogItem
	byID         map[string]*CatalogItem
	duplicateIDs []string
}

// NewCatalog indexes items by ItemID. Items without an id stay searchable but are
// not addressable; a repeated id overwrites the earlier item (last write wins).
func NewCatalog(items []CatalogItem) *Catalog {
	c := &Catalog{
		items: make([]*CatalogItem, 0, len(items)),
		byID:  make(map[string]*CatalogItem, len(items)),
	}

	for idx := range items {
		item := &items[idx]
		c.items = append(c.items, item)
		if item.ItemID == "" {
			continue
		}
		if _, exists := c.byID[item.ItemID]; exists {
			c.duplicateIDs = append(c.duplicateIDs, item.ItemID)
		}
		c.byID[item.ItemID] = item
	}

	return c
}

// Items returns every catalog item in source order
func (c *Catalog) Items() []*CatalogItem {
	if c == nil {
		return nil
	}
	return c.items
}

// FindByItemID looks up an addressable item
func (c *Catalog) FindByItemID(id string) (*CatalogItem, bool) {
	if c == nil || id == "" {
		return nil, false
	}
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the number of searchable items
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// IndexedLen returns the number of distinct addressable ids
func (c *Catalog) IndexedLen() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// DuplicateIDs lists ids that were overwritten while indexing, in encounter order
func (c *Catalog) DuplicateIDs() []string {
	if c == nil {
		return nil
	}
	return c.duplicateIDs
}
