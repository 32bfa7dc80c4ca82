package domain

import "errors"

// Domain-specific errors for page rendering.
var (
	// Request errors
	ErrMissingParameter = errors.New("missing required parameter")

	// Upstream errors
	ErrUpstreamFetch    = errors.New("upstream fetch failed")
	ErrResourceNotFound = errors.New("text resource not found")
	ErrInvalidLocation  = errors.New("invalid source location")

	// Routing errors
	ErrSiteNotFound  = errors.New("site not found")
	ErrEmptySiteList = errors.New("site list is empty")

	// Rendering errors
	ErrRender = errors.New("render failed")
)
