package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adega/backend/internal/domain"
)

func TestNormalizeRecord(t *testing.T) {
	t.Run("fully populated record", func(t *testing.T) {
		item := NormalizeRecord(domain.RawCatalogRecord{
			ItemPlatformID:     "2001",
			Name:               "Água Mineral c/6",
			ContainerItemSize:  domain.NumberOf(1),
			ContainerUnit:      "L",
			PackName:           "fd",
			Price:              domain.NumberOf(12.349),
			ProductSKU:         "SKU-2001",
			SourceVendorItemID: "V-2001",
			Extra:              map[string]json.RawMessage{"category": json.RawMessage(`"aguas"`)},
		})

		assert.Equal(t, "2001", item.ItemID)
		assert.Equal(t, "Água Mineral c/6", item.Name)
		assert.Equal(t, "agua mineral c 6", item.NormalizedName)
		assert.Equal(t, []string{"6", "agua", "c", "mineral"}, item.Tokens.Sorted())
		require.NotNil(t, item.ContainerItemSize)
		assert.Equal(t, 1.0, *item.ContainerItemSize)
		require.NotNil(t, item.SizeMl)
		assert.Equal(t, 1000.0, *item.SizeMl)
		assert.Equal(t, "1L", item.VariantLabel)
		assert.Equal(t, "fd", item.PackCode)
		assert.Equal(t, domain.PackCategoryFardo, item.PackCanonical)
		assert.Equal(t, "Fardo c/ 6", item.PackLabel)
		assert.Equal(t, 12.35, item.Price)
		assert.False(t, item.PriceMissing)
		assert.Equal(t, "SKU-2001", item.ProductID())
		assert.JSONEq(t, `"aguas"`, string(item.Extra["category"]))
	})

	t.Run("missing price is flagged and priced at zero", func(t *testing.T) {
		item := NormalizeRecord(domain.RawCatalogRecord{ItemPlatformID: "1", Name: "Skol"})

		assert.True(t, item.PriceMissing)
		assert.Zero(t, item.Price)
	})

	t.Run("zero price is not missing", func(t *testing.T) {
		item := NormalizeRecord(domain.RawCatalogRecord{Name: "Brinde", Price: domain.NumberOf(0)})

		assert.False(t, item.PriceMissing)
		assert.Zero(t, item.Price)
	})

	t.Run("missing size leaves size and variant unknown", func(t *testing.T) {
		item := NormalizeRecord(domain.RawCatalogRecord{Name: "Skol", ContainerUnit: "ml"})

		assert.Nil(t, item.SizeMl)
		assert.Nil(t, item.ContainerItemSize)
		assert.Empty(t, item.VariantLabel)
	})

	t.Run("unknown pack passes through", func(t *testing.T) {
		item := NormalizeRecord(domain.RawCatalogRecord{Name: "Kit Churrasco", PackName: "KIT"})

		assert.Equal(t, domain.OtherPack("kit"), item.PackCanonical)
		assert.Equal(t, "KIT", item.PackLabel)
	})

	t.Run("product id falls back to vendor item id", func(t *testing.T) {
		item := NormalizeRecord(domain.RawCatalogRecord{Name: "Skol", SourceVendorItemID: "V-9"})

		assert.Equal(t, "V-9", item.ProductID())
	})
}

func TestBuildCatalog(t *testing.T) {
	catalog := BuildCatalog([]domain.RawCatalogRecord{
		{ItemPlatformID: "1", Name: "Skol Lata", Price: domain.NumberOf(3)},
		{Name: "Sem Id"},
		{ItemPlatformID: "2", Name: "Brahma Lata", Price: domain.NumberOf(4)},
		{ItemPlatformID: "1", Name: "Skol Lata Nova", Price: domain.NumberOf(5)},
	})

	assert.Equal(t, 4, catalog.Len())
	assert.Equal(t, 2, catalog.IndexedLen())
	assert.Equal(t, []string{"1"}, catalog.DuplicateIDs())

	item, ok := catalog.FindByItemID("1")
	require.True(t, ok)
	assert.Equal(t, "Skol Lata Nova", item.Name)

	_, ok = catalog.FindByItemID("")
	assert.False(t, ok)

	// items keep source order
	names := make([]string, 0, catalog.Len())
	for _, item := range catalog.Items() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Skol Lata", "Sem Id", "Brahma Lata", "Skol Lata Nova"}, names)
}

func TestBuildCatalog_Empty(t *testing.T) {
	catalog := BuildCatalog(nil)

	assert.Zero(t, catalog.Len())
	assert.Empty(t, catalog.Items())
}

func TestSummarizeCatalog(t *testing.T) {
	catalog := BuildCatalog([]domain.RawCatalogRecord{
		{ItemPlatformID: "1", Name: "Skol", PackName: "PCT"},
		{ItemPlatformID: "1", Name: "Skol", PackName: "pct", Price: domain.NumberOf(2)},
		{Name: "Sem Id", PackName: "KIT", Price: domain.NumberOf(2)},
	})

	stats := SummarizeCatalog(catalog)

	assert.Equal(t, 3, stats.Items)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 1, stats.WithoutID)
	assert.Equal(t, 1, stats.MissingPrice)
	assert.Equal(t, []string{"pct", "kit"}, stats.UnknownPacks)
	assert.Equal(t, []string{"1"}, stats.DuplicateIDs)
}

func TestCatalogBuilder_Build(t *testing.T) {
	t.Run("logs data quality warnings", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		builder := NewCatalogBuilder(zap.New(core))

		catalog := builder.Build([]domain.RawCatalogRecord{
			{ItemPlatformID: "1", Name: "Skol"},
			{ItemPlatformID: "1", Name: "Skol", PackName: "PCT", Price: domain.NumberOf(1)},
			{Name: "Sem Id", Price: domain.NumberOf(1)},
		})

		assert.Equal(t, 3, catalog.Len())
		assert.Equal(t, 1, logs.FilterMessage("Catalog built").Len())
		assert.Equal(t, 1, logs.FilterMessageSnippet("without a usable price").Len())
		assert.Equal(t, 1, logs.FilterMessageSnippet("without item_platform_id").Len())
		assert.Equal(t, 1, logs.FilterMessageSnippet("Unrecognized pack codes").Len())
		assert.Equal(t, 1, logs.FilterMessageSnippet("Duplicate item_platform_id").Len())
	})

	t.Run("clean catalog logs no warnings", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		builder := NewCatalogBuilder(zap.New(core))

		builder.Build([]domain.RawCatalogRecord{
			{ItemPlatformID: "1", Name: "Skol", PackName: "CX", Price: domain.NumberOf(1)},
		})

		assert.Zero(t, logs.Len())
	})

	t.Run("nil logger is allowed", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewCatalogBuilder(nil).Build(nil)
		})
	})
}
