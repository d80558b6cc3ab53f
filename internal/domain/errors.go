package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been opened or was closed.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrCatalogNotFound indicates the region catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrCatalogEmpty indicates a catalog without any region.
	ErrCatalogEmpty = errors.New("catalog has no regions")
	// ErrInvalidRegion indicates a region with a blank code or display name.
	ErrInvalidRegion = errors.New("invalid region")
)
