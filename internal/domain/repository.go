package domain

import "context"

// CatalogSource yields the raw catalog records loaded at startup
type CatalogSource interface {
	FetchRecords(ctx context.Context) ([]RawCatalogRecord, error)
}

// CartRepository holds cart quantity maps with lazy TTL expiry.
// Every call first purges all expired carts, not only the one it names.
type CartRepository interface {
	// Apply upserts lines into cartID (created if absent) and drops the cart if it ends up empty.
	Apply(ctx context.Context, cartID string, items []CartItemInput) ([]CartItemOutcome, error)
	// Snapshot refreshes the cart's access time and returns its quantities in insertion order.
	// Returns ErrCartNotFound when the cart does not exist.
	Snapshot(ctx context.Context, cartID string) ([]CartQuantity, error)
}
