package catalogservice

import (
	"fmt"
	"strconv"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
	"github.com/tidwall/gjson"
)

// BuildCatalog projects every element of doc onto a Country, keeping the
// document order. Any element without a string name.common or a non-negative
// integer population fails the whole build.
func BuildCatalog(doc catalogdomain.Document) (catalogdomain.Catalog, error) {
	if doc == nil {
		return nil, ErrNoData
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotArray)
	}

	root := gjson.ParseBytes(doc)
	if !root.IsArray() {
		return nil, ErrNotArray
	}

	elements := root.Array()
	catalog := make(catalogdomain.Catalog, 0, len(elements))
	for i, element := range elements {
		country, err := projectCountry(element)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedRecord, i, err)
		}
		catalog = append(catalog, country)
	}
	return catalog, nil
}

func projectCountry(element gjson.Result) (catalogdomain.Country, error) {
	name := element.Get("name.common")
	if name.Type != gjson.String {
		return catalogdomain.Country{}, fmt.Errorf("missing or non-string name.common")
	}

	population := element.Get("population")
	if population.Type != gjson.Number {
		return catalogdomain.Country{}, fmt.Errorf("missing or non-numeric population for %q", name.Str)
	}
	n, err := strconv.ParseInt(population.Raw, 10, 64)
	if err != nil {
		return catalogdomain.Country{}, fmt.Errorf("population %s of %q is not an integer", population.Raw, name.Str)
	}
	if n < 0 {
		return catalogdomain.Country{}, fmt.Errorf("population %d of %q is negative", n, name.Str)
	}

	return catalogdomain.Country{Name: name.Str, Population: n}, nil
}
