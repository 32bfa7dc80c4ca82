package service

import (
	"context"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/sites"
	"github.com/mtlprog/ampserve/internal/source"
)

// SiteService renders per-site pages chosen from a site list.
type SiteService struct {
	pipeline *Pipeline
	list     *source.Resolver
	origin   string
	picker   sites.Picker
}

// NewSiteService creates a SiteService. origin is the base canonical site URLs are built on.
func NewSiteService(pipeline *Pipeline, list *source.Resolver, origin string, picker sites.Picker) *SiteService {
	return &SiteService{
		pipeline: pipeline,
		list:     list,
		origin:   origin,
		picker:   picker,
	}
}

// Render resolves segment against the current site list and renders the
// matching page. An empty segment picks a random site. An unmatched segment
// returns domain.ErrSiteNotFound.
func (s *SiteService) Render(ctx context.Context, segment string) (domain.RenderedPage, error) {
	list := sites.Parse(s.list.Resolve(ctx), s.origin)

	site, err := list.Resolve(segment, s.picker)
	if err != nil {
		return domain.RenderedPage{}, err
	}

	return s.pipeline.Render(ctx, site.Name, site.CanonicalURL), nil
}
