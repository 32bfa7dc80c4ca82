package domain

// Site is a single entry of a site list.
type Site struct {
	// Name is the canonical name as it appears in the list, e.g. "live chat".
	Name string
	// Slug is Name with spaces replaced by hyphens, e.g. "live-chat".
	Slug string
	// CanonicalURL is the base origin joined with Slug.
	CanonicalURL string
}
