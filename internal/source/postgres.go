package source

import (
	"context"
	"fmt"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/repository"
)

// PostgresProvider reads a named row from text_resources.
type PostgresProvider struct {
	repo *repository.TextResourceRepository
	name string
}

// NewPostgresProvider creates a PostgresProvider.
func NewPostgresProvider(repo *repository.TextResourceRepository, name string) *PostgresProvider {
	return &PostgresProvider{repo: repo, name: name}
}

// Fetch loads the resource body.
func (p *PostgresProvider) Fetch(ctx context.Context) (string, error) {
	res, err := p.repo.GetByName(ctx, p.name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}
	return res.Body, nil
}

// Name implements Provider.
func (p *PostgresProvider) Name() string {
	return "postgres"
}
