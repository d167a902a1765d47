package catalogdomain

import "encoding/json"

// Country is a name/population pair. Values compare with ==.
type Country struct {
	Name       string
	Population int64
}

// Catalog is the ordered list of countries built once per process.
type Catalog []Country

// Document is the raw JSON array returned by the country endpoint.
// A nil Document means the endpoint answered without data.
type Document = json.RawMessage
