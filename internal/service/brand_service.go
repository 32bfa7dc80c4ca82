package service

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mtlprog/ampserve/internal/domain"
)

// BrandService renders brand pages from a query value.
type BrandService struct {
	pipeline      *Pipeline
	canonicalBase string
	queryKey      string
	policy        *bluemonday.Policy
}

// NewBrandService creates a BrandService. canonicalBase is the URL the brand
// query is appended to when building the canonical link.
func NewBrandService(pipeline *Pipeline, canonicalBase, queryKey string) *BrandService {
	return &BrandService{
		pipeline:      pipeline,
		canonicalBase: canonicalBase,
		queryKey:      queryKey,
		policy:        bluemonday.StrictPolicy(),
	}
}

// QueryKey returns the query parameter the brand is read from.
func (s *BrandService) QueryKey() string {
	return s.queryKey
}

// Render validates and neutralises the brand value and renders the page.
func (s *BrandService) Render(ctx context.Context, brand string) (domain.RenderedPage, error) {
	brand = s.SanitizeBrand(brand)
	if brand == "" {
		return domain.RenderedPage{}, fmt.Errorf("%w: ?%s=", domain.ErrMissingParameter, s.queryKey)
	}

	return s.pipeline.Render(ctx, brand, s.CanonicalURL(html.UnescapeString(brand))), nil
}

// SanitizeBrand strips markup from a raw brand value and escapes what is left,
// so the result is inert in text, attribute and JSON string contexts.
// The result keeps its entity form ("AT&T" becomes "AT&amp;T").
func (s *BrandService) SanitizeBrand(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(strings.TrimSpace(raw)))
}

// CanonicalURL builds the canonical link for a brand page from the decoded
// brand value; the query encoding makes it safe to embed.
func (s *BrandService) CanonicalURL(brand string) string {
	u, err := url.Parse(s.canonicalBase)
	if err != nil {
		return s.canonicalBase
	}
	q := u.Query()
	q.Set(s.queryKey, strings.ToLower(brand))
	u.RawQuery = q.Encode()
	return u.String()
}
