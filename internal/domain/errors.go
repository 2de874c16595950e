package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCartNotFound is returned when a cart id has no active session (never created, emptied or expired)
	ErrCartNotFound = errors.New("cart not found")

	// ErrCatalogUnavailable is returned when the catalog source cannot be read
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrCatalogDecode is returned when the catalog source is not a JSON array of records
	ErrCatalogDecode = errors.New("catalog source could not be decoded")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
