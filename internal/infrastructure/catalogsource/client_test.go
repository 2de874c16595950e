package catalogsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adega/backend/internal/domain"
)

const sampleCatalog = `[
	{"item_platform_id": "1001", "name": "Cerveja Skol Lata 473ml CX c/12", "container_item_size": 473,
	 "container_unit_of_measurement": "ml", "pack_name": "CX", "price": 39.9, "product_sku": "SKU-1001"},
	{"item_platform_id": 1002, "name": "Heineken 1L", "container_item_size": "1",
	 "container_unit_of_measurement": "L", "price": null, "category": "cervejas"}
]`

// newTestClient returns a client without backoff delays
func newTestClient(url string) *Client {
	client := NewClient(url, 5*time.Second, nil)
	client.backoff = func(int) time.Duration { return 0 }
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://catalog.example.com/catalogo.json", 0, nil)

	assert.NotNil(t, client)
	assert.Equal(t, "https://catalog.example.com/catalogo.json", client.url)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.NotNil(t, client.logger)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := NewClient("https://catalog.example.com", time.Second, nil)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestFetchRecords_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleCatalog))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.SetDebug(true)

	records, err := client.FetchRecords(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1001", records[0].ItemPlatformID)
	assert.Equal(t, domain.NumberOf(39.9), records[0].Price)
	assert.Equal(t, "1002", records[1].ItemPlatformID)
	assert.Equal(t, domain.NumberOf(1), records[1].ContainerItemSize)
	assert.False(t, records[1].Price.Valid)
	assert.Contains(t, records[1].Extra, "category")
}

func TestFetchRecords_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleCatalog))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).FetchRecords(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchRecords_RetriesTooManyRequests(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).FetchRecords(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchRecords_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).FetchRecords(context.Background())

	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestFetchRecords_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).FetchRecords(context.Background())

	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchRecords_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).FetchRecords(context.Background())

	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrCatalogDecode)
}

func TestFetchRecords_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	records, err := newTestClient(url).FetchRecords(context.Background())

	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestFetchRecords_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCatalog))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := newTestClient(server.URL).FetchRecords(ctx)

	assert.Nil(t, records)
	assert.Error(t, err)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(http.StatusTooManyRequests))
	assert.True(t, isRetryable(http.StatusInternalServerError))
	assert.True(t, isRetryable(http.StatusBadGateway))
	assert.False(t, isRetryable(http.StatusNotFound))
	assert.False(t, isRetryable(http.StatusUnauthorized))
}
