package usecase

import (
	"go.uber.org/zap"

	"github.com/adega/backend/internal/domain"
	"github.com/adega/backend/internal/metrics"
)

// CatalogStats summarizes data-quality issues found while building the catalog
type CatalogStats struct {
	Items        int
	Indexed      int
	WithoutID    int
	MissingPrice int
	UnknownPacks []string
	DuplicateIDs []string
}

// NormalizeRecord turns one raw catalog record into a searchable item.
// Malformed fields degrade to defaults: no size, no pack, price 0 flagged as missing.
func NormalizeRecord(record domain.RawCatalogRecord) domain.CatalogItem {
	item := domain.CatalogItem{
		ItemID:             record.ItemPlatformID,
		Name:               record.Name,
		NormalizedName:     Normalize(record.Name),
		Tokens:             UniqueTokens(Tokenize(record.Name)),
		ContainerUnit:      record.ContainerUnit,
		PackCode:           record.PackName,
		PackCanonical:      CanonicalPack(record.PackName),
		PackLabel:          FormatPackLabel(record.PackName, record.Name),
		ProductSKU:         record.ProductSKU,
		SourceVendorItemID: record.SourceVendorItemID,
		Extra:              record.Extra,
	}

	if record.ContainerItemSize.Valid {
		size := record.ContainerItemSize.Value
		item.ContainerItemSize = &size
		item.SizeMl = ToMilliliters(size, record.ContainerUnit)
	}
	item.VariantLabel = FormatVariantLabel(item.SizeMl)

	if record.Price.Valid {
		item.Price = roundTo(record.Price.Value, 2)
	} else {
		item.PriceMissing = true
	}

	return item
}

// BuildCatalog normalizes every record and indexes the addressable ones.
// It runs once per process; there is no incremental update.
func BuildCatalog(records []domain.RawCatalogRecord) *domain.Catalog {
	items := make([]domain.CatalogItem, 0, len(records))
	for _, record := range records {
		items = append(items, NormalizeRecord(record))
	}
	return domain.NewCatalog(items)
}

// SummarizeCatalog collects the data-quality counters of a built catalog
func SummarizeCatalog(catalog *domain.Catalog) CatalogStats {
	stats := CatalogStats{
		Items:        catalog.Len(),
		Indexed:      catalog.IndexedLen(),
		DuplicateIDs: catalog.DuplicateIDs(),
	}

	seenPacks := make(map[string]bool)
	for _, item := range catalog.Items() {
		if item.ItemID == "" {
			stats.WithoutID++
		}
		if item.PriceMissing {
			stats.MissingPrice++
		}
		if item.PackCanonical.Kind == domain.PackOther && !seenPacks[item.PackCanonical.String()] {
			seenPacks[item.PackCanonical.String()] = true
			stats.UnknownPacks = append(stats.UnknownPacks, item.PackCanonical.String())
		}
	}

	return stats
}

// CatalogBuilder builds the catalog and reports data-quality warnings
type CatalogBuilder struct {
	logger *zap.Logger
}

// NewCatalogBuilder creates a builder; a nil logger disables reporting
func NewCatalogBuilder(logger *zap.Logger) *CatalogBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogBuilder{logger: logger}
}

// Build normalizes the records and logs what was degraded along the way
func (b *CatalogBuilder) Build(records []domain.RawCatalogRecord) *domain.Catalog {
	catalog := BuildCatalog(records)
	stats := SummarizeCatalog(catalog)
	metrics.SetCatalogItems(stats.Items, stats.Indexed, stats.MissingPrice)

	b.logger.Info("Catalog built",
		zap.Int("items", stats.Items),
		zap.Int("indexed", stats.Indexed),
	)

	if stats.MissingPrice > 0 {
		b.logger.Warn("Catalog items without a usable price, priced at 0",
			zap.Int("count", stats.MissingPrice))
	}
	if stats.WithoutID > 0 {
		b.logger.Warn("Catalog items without item_platform_id are searchable but cannot be added to carts",
			zap.Int("count", stats.WithoutID))
	}
	if len(stats.UnknownPacks) > 0 {
		b.logger.Warn("Unrecognized pack codes passed through",
			zap.Strings("codes", stats.UnknownPacks))
	}
	if len(stats.DuplicateIDs) > 0 {
		// TODO: confirm with the catalog owner whether repeated ids should be rejected instead
		b.logger.Warn("Duplicate item_platform_id values, last record wins",
			zap.Strings("ids", stats.DuplicateIDs))
	}

	return catalog
}
