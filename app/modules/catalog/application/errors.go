package catalogservice

import "errors"

var (
	// ErrNoData means the endpoint answered without a usable document.
	ErrNoData = errors.New("no country data available")

	// ErrNotArray means the document is valid JSON but not an array.
	ErrNotArray = errors.New("country document is not a JSON array")

	// ErrMalformedRecord means an element lacks name.common or population.
	ErrMalformedRecord = errors.New("malformed country record")
)
