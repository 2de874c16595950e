package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "adega"

// Search and cart Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total number of catalog searches",
		},
	)

	SearchEmptyResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_empty_results_total",
			Help:      "Catalog searches that returned no match",
		},
	)

	SearchMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Number of matches returned per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	CartsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_expired_total",
			Help:      "Carts purged after exceeding their idle TTL",
		},
	)

	CartsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "carts_active",
			Help:      "Carts currently held in memory",
		},
	)

	CatalogItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_items",
			Help:      "Catalog items loaded at startup",
		},
		[]string{"kind"}, // "searchable" / "indexed" / "price_missing"
	)
)

func init() {
	prometheus.MustRegister(
		SearchQueriesTotal,
		SearchEmptyResultsTotal,
		SearchMatches,
		CartsExpiredTotal,
		CartsActive,
		CatalogItems,
	)
}

// ObserveSearch records one completed search
func ObserveSearch(matches int) {
	SearchQueriesTotal.Inc()
	SearchMatches.Observe(float64(matches))
	if matches == 0 {
		SearchEmptyResultsTotal.Inc()
	}
}

// AddExpiredCarts counts carts dropped by a TTL purge
func AddExpiredCarts(n int) {
	CartsExpiredTotal.Add(float64(n))
}

// SetActiveCarts updates the live cart gauge
func SetActiveCarts(n int) {
	CartsActive.Set(float64(n))
}

// SetCatalogItems publishes catalog size counters
func SetCatalogItems(searchable, indexed, priceMissing int) {
	CatalogItems.WithLabelValues("searchable").Set(float64(searchable))
	CatalogItems.WithLabelValues("indexed").Set(float64(indexed))
	CatalogItems.WithLabelValues("price_missing").Set(float64(priceMissing))
}
