// Package config holds the service defaults and validates the resolved settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mtlprog/ampserve/internal/domain"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; the database is only needed for postgres: locations.
	DefaultDatabaseURL = ""

	// DefaultMode serves brand pages.
	DefaultMode = string(domain.ModeBrand)

	// DefaultBrandKey is the query parameter brand pages read.
	DefaultBrandKey = "jackpot"

	// DefaultTemplateLocation is where the brand template is fetched from.
	DefaultTemplateLocation = "https://example.com/target.txt"

	// DefaultSiteTemplateLocation and DefaultSitesLocation use the embedded copies.
	DefaultSiteTemplateLocation = "embedded:"
	DefaultSitesLocation        = "embedded:"

	// DefaultFetchTimeout bounds each upstream fetch.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultCanonicalBase is the URL brand queries are appended to for canonical links.
	DefaultCanonicalBase = "https://example.org/app/"

	// DefaultSiteOrigin is the base for per-site canonical URLs.
	DefaultSiteOrigin = "https://example.org/"

	// DefaultLogFormat is the slog handler format.
	DefaultLogFormat = "json"
)

// Config is the resolved runtime configuration.
type Config struct {
	Port                 string
	Mode                 domain.Mode
	BrandKey             string
	TemplateLocation     string
	SiteTemplateLocation string
	SitesLocation        string
	FetchTimeout         time.Duration
	CanonicalBase        string
	SiteOrigin           string
	DatabaseURL          string
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if !c.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("mode %q must be one of brand, site, auto", c.Mode))
	}
	if strings.TrimSpace(c.BrandKey) == "" {
		errs = append(errs, errors.New("brand key must not be empty"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout %s must be positive", c.FetchTimeout))
	}
	if err := validateAbsoluteURL("canonical base", c.CanonicalBase); err != nil {
		errs = append(errs, err)
	}
	if err := validateAbsoluteURL("site origin", c.SiteOrigin); err != nil {
		errs = append(errs, err)
	}
	if c.NeedsDatabase() && c.DatabaseURL == "" {
		errs = append(errs, errors.New("postgres: locations require --database-url"))
	}

	return errors.Join(errs...)
}

// NeedsDatabase reports whether any location reads from Postgres.
func (c Config) NeedsDatabase() bool {
	for _, loc := range []string{c.TemplateLocation, c.SiteTemplateLocation, c.SitesLocation} {
		if strings.HasPrefix(strings.TrimSpace(loc), "postgres:") {
			return true
		}
	}
	return false
}

func validateAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s %q must be an absolute URL", field, raw)
	}
	return nil
}
