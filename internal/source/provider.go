// Package source provides the text providers templates and site lists are
// read from, and the Resolver that masks their failures with an embedded
// fallback.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/repository"
)

// Provider fetches a text resource.
type Provider interface {
	Fetch(ctx context.Context) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// OpenOptions carries the dependencies location schemes may need.
type OpenOptions struct {
	HTTP      *HTTPClient
	Resources *repository.TextResourceRepository
	// Embedded is served for "embedded:" and empty locations.
	Embedded string
}

// Open returns the provider for location:
//
//	http://..., https://...   HTTPProvider
//	file:///path, /path, ./p  FileProvider
//	postgres:<name>           PostgresProvider
//	embedded:, ""             StaticProvider with opts.Embedded
func Open(location string, opts OpenOptions) (Provider, error) {
	location = strings.TrimSpace(location)

	switch {
	case location == "" || location == "embedded:":
		return NewStaticProvider("embedded", opts.Embedded), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		client := opts.HTTP
		if client == nil {
			client = NewHTTPClient(DefaultFetchTimeout)
		}
		return NewHTTPProvider(client, location), nil
	case strings.HasPrefix(location, "postgres:"):
		name := strings.TrimPrefix(location, "postgres:")
		if name == "" {
			return nil, fmt.Errorf("%w: postgres location needs a resource name", domain.ErrInvalidLocation)
		}
		if opts.Resources == nil {
			return nil, fmt.Errorf("%w: %s requires --database-url", domain.ErrInvalidLocation, location)
		}
		return NewPostgresProvider(opts.Resources, name), nil
	case strings.HasPrefix(location, "file://"):
		return NewFileProvider(strings.TrimPrefix(location, "file://")), nil
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("%w: unsupported scheme in %q", domain.ErrInvalidLocation, location)
	default:
		return NewFileProvider(location), nil
	}
}

// StaticProvider returns a fixed string.
type StaticProvider struct {
	name string
	text string
}

// NewStaticProvider creates a StaticProvider.
func NewStaticProvider(name, text string) *StaticProvider {
	return &StaticProvider{name: name, text: text}
}

// Fetch returns the fixed text.
func (p *StaticProvider) Fetch(context.Context) (string, error) {
	return p.text, nil
}

// Name implements Provider.
func (p *StaticProvider) Name() string {
	return p.name
}
