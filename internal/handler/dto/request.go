package dto

import (
	"net/http"

	"github.com/mtlprog/ampserve/internal/sites"
)

// PageRequest is what the page handler reads from an incoming request.
type PageRequest struct {
	// Brand is the raw, untrusted value of the brand query parameter.
	Brand string
	// HasBrand reports whether the brand key appeared in the query at all.
	HasBrand bool
	// Segment is the first path segment, "" for the root path.
	Segment string
	// UserAgent is used to decide whether to send a canonical Link header.
	UserAgent string
}

// ParsePageRequest extracts a PageRequest using brandKey as the query parameter name.
func ParsePageRequest(r *http.Request, brandKey string) PageRequest {
	query := r.URL.Query()
	return PageRequest{
		Brand:     query.Get(brandKey),
		HasBrand:  query.Has(brandKey),
		Segment:   sites.FirstSegment(r.URL.Path),
		UserAgent: r.UserAgent(),
	}
}
