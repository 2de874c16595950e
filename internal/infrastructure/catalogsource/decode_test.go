package catalogsource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adega/backend/internal/domain"
)

func TestDecodeRecords(t *testing.T) {
	t.Run("decodes an array of records", func(t *testing.T) {
		records, err := DecodeRecords(strings.NewReader(sampleCatalog))

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Cerveja Skol Lata 473ml CX c/12", records[0].Name)
		assert.Equal(t, "CX", records[0].PackName)
		assert.Equal(t, "SKU-1001", records[0].ProductSKU)
		assert.Equal(t, "L", records[1].ContainerUnit)
	})

	t.Run("empty array is valid", func(t *testing.T) {
		records, err := DecodeRecords(strings.NewReader(`[]`))

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed fields degrade instead of failing", func(t *testing.T) {
		records, err := DecodeRecords(strings.NewReader(
			`[{"name": "Skol", "price": "abc", "container_item_size": {"x": 1}, "pack_name": 12}]`))

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.False(t, records[0].Price.Valid)
		assert.False(t, records[0].ContainerItemSize.Valid)
		assert.Equal(t, "12", records[0].PackName)
	})

	t.Run("rejects non-array documents", func(t *testing.T) {
		for _, doc := range []string{`{}`, `"catalog"`, `[1, 2]`, `not json`, ``} {
			_, err := DecodeRecords(strings.NewReader(doc))
			assert.ErrorIs(t, err, domain.ErrCatalogDecode, "document %q", doc)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads a catalog file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalogo.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

		records, err := LoadFile(path)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("missing file is unavailable", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))

		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	})

	t.Run("invalid file is a decode error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalogo.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"items": []}`), 0644))

		_, err := LoadFile(path)

		assert.ErrorIs(t, err, domain.ErrCatalogDecode)
	})
}

func TestNew(t *testing.T) {
	t.Run("prefers the URL", func(t *testing.T) {
		source := New("./catalogo.json", "https://catalog.example.com", time.Second, nil)

		_, ok := source.(*Client)
		assert.True(t, ok, "source = %T, want *Client", source)
	})

	t.Run("falls back to the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalogo.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

		source := New(path, "", time.Second, nil)
		require.IsType(t, &FileSource{}, source)

		records, err := source.FetchRecords(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
