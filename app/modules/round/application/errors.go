package roundservice

import "errors"

// ErrCatalogTooSmall is returned when the catalog cannot produce two distinct
// countries for a round.
var ErrCatalogTooSmall = errors.New("catalog needs at least two distinct countries")
