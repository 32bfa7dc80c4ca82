package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/render"
	"github.com/mtlprog/ampserve/internal/source"
)

// PipelineConfig parameterizes a rendering pipeline.
type PipelineConfig struct {
	Patterns render.PatternSet
	Template *source.Resolver
	Cache    domain.CachePolicy
}

// Pipeline resolves a template and substitutes one subject into it.
// Brand and site pages are two configurations of the same pipeline.
type Pipeline struct {
	engine   *render.Engine
	template *source.Resolver
	cache    domain.CachePolicy
}

// NewPipeline creates a Pipeline. An unknown cache policy is treated as short.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	cache := cfg.Cache
	if !cache.IsValid() {
		cache = domain.CachePolicyShort
	}
	return &Pipeline{
		engine:   render.New(cfg.Patterns),
		template: cfg.Template,
		cache:    cache,
	}
}

// Render fetches the template (falling back to the embedded copy) and
// substitutes subject and canonicalURL into it.
func (p *Pipeline) Render(ctx context.Context, subject, canonicalURL string) domain.RenderedPage {
	tpl := p.template.Resolve(ctx)
	html := p.engine.RenderPage(tpl, subject, canonicalURL)

	page := domain.RenderedPage{
		Subject:      subject,
		HTML:         html,
		Cache:        p.cache,
		CanonicalURL: canonicalURL,
	}
	if p.cache == domain.CachePolicyImmutable {
		page.ETag = computeETag(html)
	}
	return page
}

func computeETag(body string) string {
	sum := sha256.Sum256([]byte(body))
	return `W/"` + hex.EncodeToString(sum[:16]) + `"`
}
