package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/render"
	"github.com/mtlprog/ampserve/internal/service"
	"github.com/mtlprog/ampserve/internal/source"
	"github.com/mtlprog/ampserve/internal/static"
)

type failingProvider struct{}

func (failingProvider) Fetch(context.Context) (string, error) { return "", errors.New("unreachable") }
func (failingProvider) Name() string                          { return "failing" }

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

// ServiceTestSuite covers the brand and site services on top of the pipeline.
type ServiceTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) brandService(provider source.Provider) *service.BrandService {
	pipeline := service.NewPipeline(service.PipelineConfig{
		Patterns: render.DefaultPatterns(),
		Template: source.NewResolver(provider, static.BrandTemplate, nil),
		Cache:    domain.CachePolicyShort,
	})
	return service.NewBrandService(pipeline, "https://example.org/app/", "jackpot")
}

func (s *ServiceTestSuite) siteService(list string, picker fixedPicker) *service.SiteService {
	pipeline := service.NewPipeline(service.PipelineConfig{
		Patterns: render.DefaultPatterns(),
		Template: source.NewResolver(failingProvider{}, static.SiteTemplate, nil),
		Cache:    domain.CachePolicyImmutable,
	})
	lists := source.NewResolver(source.NewStaticProvider("static", list), static.SiteList, nil)
	return service.NewSiteService(pipeline, lists, "https://example.org/", picker)
}

func (s *ServiceTestSuite) TestBrand_RendersUpstreamTemplate() {
	svc := s.brandService(source.NewStaticProvider("static", "<h1>$BRANDS</h1><p>strtolower($BRANDS)</p><a href=\"$CANONICAL_URL\"></a>"))

	page, err := svc.Render(s.ctx, "Acme")
	s.Require().NoError(err)

	s.Equal(`<h1>ACME</h1><p>acme</p><a href="https://example.org/app/?jackpot=acme"></a>`, page.HTML)
	s.Equal(domain.CachePolicyShort, page.Cache)
	s.Equal("https://example.org/app/?jackpot=acme", page.CanonicalURL)
	s.Equal("Acme", page.Subject)
	s.Empty(page.ETag)
}

func (s *ServiceTestSuite) TestBrand_FallsBackWhenUpstreamFails() {
	svc := s.brandService(failingProvider{})

	page, err := svc.Render(s.ctx, "Acme")
	s.Require().NoError(err)

	s.Contains(page.HTML, "<title>acme: Official Page</title>")
	s.Contains(page.HTML, "Welcome to ACME.")
	s.NotContains(page.HTML, "$BRANDS")
	s.NotContains(page.HTML, "$CANONICAL_URL")
}

func (s *ServiceTestSuite) TestBrand_MissingValue() {
	svc := s.brandService(failingProvider{})

	for _, raw := range []string{"", "   ", "<script>alert(1)</script>"} {
		_, err := svc.Render(s.ctx, raw)
		s.ErrorIs(err, domain.ErrMissingParameter, "raw %q", raw)
	}
}

func (s *ServiceTestSuite) TestBrand_SanitizesMarkup() {
	svc := s.brandService(source.NewStaticProvider("static", `<a title="strtolower($BRANDS)">x</a>`))

	page, err := svc.Render(s.ctx, `acme"><b>x</b>`)
	s.Require().NoError(err)

	s.NotContains(page.HTML, `"><b>`)
	s.False(strings.Contains(page.HTML, "<b>"))
}

func (s *ServiceTestSuite) TestBrand_ValueSpellingCanonicalTokenStaysLiteral() {
	svc := s.brandService(source.NewStaticProvider("static", `<h1>$BRANDS</h1><a href="$CANONICAL_URL"></a>`))

	page, err := svc.Render(s.ctx, "$canonical_url")
	s.Require().NoError(err)

	s.Equal(`<h1>$CANONICAL_URL</h1><a href="https://example.org/app/?jackpot=%24canonical_url"></a>`, page.HTML)
}

func (s *ServiceTestSuite) TestBrand_CanonicalURLUsesDecodedValue() {
	svc := s.brandService(source.NewStaticProvider("static", `<h1>$BRANDS</h1>`))

	page, err := svc.Render(s.ctx, "AT&T")
	s.Require().NoError(err)

	s.Equal("<h1>AT&amp;T</h1>", page.HTML)
	s.Equal("https://example.org/app/?jackpot=at%26t", page.CanonicalURL)
}

func (s *ServiceTestSuite) TestSite_RandomSelection() {
	for i, want := range []string{"portal", "siakad", "perpustakaan"} {
		svc := s.siteService("portal\nsiakad\nperpustakaan", fixedPicker(i))

		page, err := svc.Render(s.ctx, "")
		s.Require().NoError(err)

		s.Equal(want, page.Subject)
		s.Contains(page.HTML, "<title>"+want+"</title>")
		s.Equal(domain.CachePolicyImmutable, page.Cache)
		s.NotEmpty(page.ETag)
	}
}

func (s *ServiceTestSuite) TestSite_PathMatch() {
	svc := s.siteService("live chat\nsiakad", fixedPicker(0))

	page, err := svc.Render(s.ctx, "livechat")
	s.Require().NoError(err)

	s.Equal("live chat", page.Subject)
	s.Equal("https://example.org/live-chat", page.CanonicalURL)
	s.Contains(page.HTML, `<link rel="canonical" href="https://example.org/live-chat"/>`)
	s.Contains(page.HTML, "<h1>LIVE CHAT</h1>")
}

func (s *ServiceTestSuite) TestSite_Unmatched() {
	svc := s.siteService("portal\nsiakad", fixedPicker(0))

	_, err := svc.Render(s.ctx, "nonexistent-site")

	s.ErrorIs(err, domain.ErrSiteNotFound)
}

func (s *ServiceTestSuite) TestSite_ETagStableForSamePage() {
	svc := s.siteService("portal", fixedPicker(0))

	first, err := svc.Render(s.ctx, "portal")
	s.Require().NoError(err)
	second, err := svc.Render(s.ctx, "")
	s.Require().NoError(err)

	s.Equal(first.ETag, second.ETag)
	s.True(strings.HasPrefix(first.ETag, `W/"`))
}
