package domain

// CartItemInput is one requested change to a cart. Qty 0 removes the item.
type CartItemInput struct {
	ItemPlatformID string `json:"item_platform_id"`
	Qty            int    `json:"qty"`
}

// CartItemOutcome reports what happened to one input line, in input order
type CartItemOutcome struct {
	ItemPlatformID string `json:"item_platform_id"`
	Qty            int    `json:"qty"`
	Removed        bool   `json:"removed,omitempty"`
}

// CartUpsertResult is returned by an upsert. CartID is set even when the cart
// ended up empty and was discarded.
type CartUpsertResult struct {
	CartID string            `json:"cart_id"`
	Items  []CartItemOutcome `json:"items"`
}

// CartQuantity is one stored (item, qty) pair, qty >= 1
type CartQuantity struct {
	ItemPlatformID string
	Qty            int
}

// CartLine is a cart quantity priced against the catalog
type CartLine struct {
	ItemPlatformID string  `json:"item_platform_id"`
	Name           string  `json:"name"`
	Variant        string  `json:"variant,omitempty"`
	Pack           string  `json:"pack,omitempty"`
	Price          float64 `json:"price"`
	Qty            int     `json:"qty"`
	LineTotal      float64 `json:"line_total"`
	PriceMissing   bool    `json:"price_missing,omitempty"`
}

// CartSnapshot is the priced view of a cart taken from a single store read
type CartSnapshot struct {
	CartID   string     `json:"cart_id"`
	Lines    []CartLine `json:"lines"`
	Subtotal float64    `json:"subtotal"`
}
