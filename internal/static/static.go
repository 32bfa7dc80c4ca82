// Package static holds the embedded fallback resources used when an upstream
// text provider cannot be reached.
package static

import _ "embed"

// BrandTemplate is the fallback AMP template for brand pages.
//
//go:embed brand.html
var BrandTemplate string

// SiteTemplate is the fallback AMP template for per-site pages.
//
//go:embed site.html
var SiteTemplate string

// SiteList is the fallback newline-delimited site list.
//
//go:embed sites.txt
var SiteList string
