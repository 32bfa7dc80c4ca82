package main

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mtlprog/ampserve/internal/config"
	"github.com/mtlprog/ampserve/internal/database"
	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/handler"
	"github.com/mtlprog/ampserve/internal/render"
	"github.com/mtlprog/ampserve/internal/repository"
	"github.com/mtlprog/ampserve/internal/service"
	"github.com/mtlprog/ampserve/internal/sites"
	"github.com/mtlprog/ampserve/internal/source"
	"github.com/mtlprog/ampserve/internal/static"
	"github.com/mtlprog/ampserve/internal/telemetry"
)

// app is the wired object graph shared by serve and render.
type app struct {
	brand   *service.BrandService
	site    *service.SiteService
	handler *handler.Handler
}

// newApp builds providers, pipelines and services from cfg. db may be nil.
func newApp(cfg config.Config, db *database.DB, logger *slog.Logger) (*app, error) {
	opts := source.OpenOptions{HTTP: source.NewHTTPClient(cfg.FetchTimeout)}
	if db != nil {
		opts.Resources = repository.NewTextResourceRepository(db.Pool())
	}

	brandTemplate, err := openResolver(cfg.TemplateLocation, static.BrandTemplate, opts, cfg.FetchTimeout, logger)
	if err != nil {
		return nil, err
	}
	siteTemplate, err := openResolver(cfg.SiteTemplateLocation, static.SiteTemplate, opts, cfg.FetchTimeout, logger)
	if err != nil {
		return nil, err
	}
	siteList, err := openResolver(cfg.SitesLocation, static.SiteList, opts, cfg.FetchTimeout, logger)
	if err != nil {
		return nil, err
	}

	brand := service.NewBrandService(service.NewPipeline(service.PipelineConfig{
		Patterns: render.DefaultPatterns(),
		Template: brandTemplate,
		Cache:    domain.CachePolicyShort,
	}), cfg.CanonicalBase, cfg.BrandKey)

	site := service.NewSiteService(service.NewPipeline(service.PipelineConfig{
		Patterns: render.DefaultPatterns(),
		Template: siteTemplate,
		Cache:    domain.CachePolicyImmutable,
	}), siteList, cfg.SiteOrigin, sites.NewPicker(uint64(time.Now().UnixNano()), rand.Uint64()))

	hopts := handler.Options{
		Mode:  cfg.Mode,
		Brand: brand,
		Site:  site,
		Sink:  telemetry.NewSlogSink(logger),
	}
	if db != nil {
		hopts.Ping = db.Ping
	}

	return &app{
		brand:   brand,
		site:    site,
		handler: handler.New(hopts),
	}, nil
}

func openResolver(location, embedded string, opts source.OpenOptions, timeout time.Duration, logger *slog.Logger) (*source.Resolver, error) {
	opts.Embedded = embedded
	provider, err := source.Open(location, opts)
	if err != nil {
		return nil, err
	}
	return source.NewResolver(provider, embedded, logger).WithTimeout(timeout), nil
}
