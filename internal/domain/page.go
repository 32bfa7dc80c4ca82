package domain

import "time"

// CachePolicy describes how long downstream caches may keep a rendered page.
type CachePolicy string

const (
	// CachePolicyShort is used for brand pages that may change with the upstream template.
	CachePolicyShort CachePolicy = "short"
	// CachePolicyImmutable is used for per-site pages.
	CachePolicyImmutable CachePolicy = "immutable"
)

const (
	// ShortCacheTTL is the max-age for CachePolicyShort.
	ShortCacheTTL = 300 * time.Second
	// ImmutableCacheTTL is the max-age for CachePolicyImmutable.
	ImmutableCacheTTL = 30 * 24 * time.Hour
)

// IsValid checks if the cache policy is a known value.
func (p CachePolicy) IsValid() bool {
	switch p {
	case CachePolicyShort, CachePolicyImmutable:
		return true
	default:
		return false
	}
}

// TTL returns the max-age associated with the policy.
func (p CachePolicy) TTL() time.Duration {
	if p == CachePolicyImmutable {
		return ImmutableCacheTTL
	}
	return ShortCacheTTL
}

// RenderedPage is a fully substituted HTML document ready to be written out.
type RenderedPage struct {
	// Subject is the brand value or canonical site name the page was rendered for.
	Subject      string
	HTML         string
	Cache        CachePolicy
	CanonicalURL string
	ETag         string
}
