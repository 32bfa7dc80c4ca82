package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mtlprog/ampserve/internal/config"
	"github.com/mtlprog/ampserve/internal/domain"
)

func validConfig() config.Config {
	return config.Config{
		Port:                 config.DefaultPort,
		Mode:                 domain.Mode(config.DefaultMode),
		BrandKey:             config.DefaultBrandKey,
		TemplateLocation:     config.DefaultTemplateLocation,
		SiteTemplateLocation: config.DefaultSiteTemplateLocation,
		SitesLocation:        config.DefaultSitesLocation,
		FetchTimeout:         config.DefaultFetchTimeout,
		CanonicalBase:        config.DefaultCanonicalBase,
		SiteOrigin:           config.DefaultSiteOrigin,
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "spa"
	cfg.BrandKey = " "
	cfg.FetchTimeout = 0
	cfg.SiteOrigin = "/relative"

	err := cfg.Validate()

	assert.ErrorContains(t, err, "mode")
	assert.ErrorContains(t, err, "brand key")
	assert.ErrorContains(t, err, "fetch timeout")
	assert.ErrorContains(t, err, "site origin")
}

func TestValidate_PostgresNeedsDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.SitesLocation = "postgres:sites"

	assert.True(t, cfg.NeedsDatabase())
	assert.ErrorContains(t, cfg.Validate(), "database-url")

	cfg.DatabaseURL = "postgres://localhost/ampserve"
	assert.NoError(t, cfg.Validate())
}

func TestNeedsDatabase_False(t *testing.T) {
	cfg := validConfig()
	cfg.FetchTimeout = time.Second

	assert.False(t, cfg.NeedsDatabase())
}
