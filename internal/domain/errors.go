package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product id is not in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrPersonaNotFound is returned when a persona id is not in the catalog
	ErrPersonaNotFound = errors.New("persona not found")

	// ErrCriterionNotFound is returned when no authored scores exist for a criterion
	ErrCriterionNotFound = errors.New("ranking criterion not found")

	// ErrSelfComparison is returned (or panicked with) when a product is compared with itself
	ErrSelfComparison = errors.New("product cannot be compared with itself")

	// ErrInvalidCatalog is returned when a catalog document breaks a product invariant
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrInvalidPersona is returned when a persona fails validation
	ErrInvalidPersona = errors.New("invalid persona")

	// ErrInvalidAuthoredScore is returned when an authored ranking entry fails validation
	ErrInvalidAuthoredScore = errors.New("invalid authored score")

	// ErrCatalogUnavailable is returned when the catalog store cannot be reached
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
