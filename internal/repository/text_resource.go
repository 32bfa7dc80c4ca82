package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/ampserve/internal/domain"
)

// TextResourceRepository handles database operations for text resources.
type TextResourceRepository struct {
	pool *pgxpool.Pool
}

// NewTextResourceRepository creates a new TextResourceRepository.
func NewTextResourceRepository(pool *pgxpool.Pool) *TextResourceRepository {
	return &TextResourceRepository{pool: pool}
}

// GetByName retrieves a text resource by name.
func (r *TextResourceRepository) GetByName(ctx context.Context, name string) (*domain.TextResource, error) {
	query, args, err := getByNameQuery(name)
	if err != nil {
		return nil, fmt.Errorf("build GetByName query for resource %s: %w", name, err)
	}

	var res domain.TextResource
	err = r.pool.QueryRow(ctx, query, args...).Scan(&res.Name, &res.Body, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrResourceNotFound, name)
		}
		return nil, fmt.Errorf("query text resource %s: %w", name, err)
	}

	return &res, nil
}

// Upsert creates or replaces a text resource.
func (r *TextResourceRepository) Upsert(ctx context.Context, name, body string) (*domain.TextResource, error) {
	query, args, err := upsertQuery(name, body, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("build Upsert query for resource %s: %w", name, err)
	}

	var res domain.TextResource
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.Name, &res.Body, &res.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert text resource %s: %w", name, err)
	}

	return &res, nil
}

// ListNames returns the names of all stored resources in alphabetical order.
func (r *TextResourceRepository) ListNames(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("name").From("text_resources").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListNames query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query text resource names: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan text resource names: %w", err)
	}

	return names, nil
}

func getByNameQuery(name string) (string, []interface{}, error) {
	return psql.
		Select("name", "body", "updated_at").
		From("text_resources").
		Where(sq.Eq{"name": name}).
		ToSql()
}

func upsertQuery(name, body string, now time.Time) (string, []interface{}, error) {
	return psql.
		Insert("text_resources").
		Columns("name", "body", "updated_at").
		Values(name, body, now).
		Suffix("ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at RETURNING name, body, updated_at").
		ToSql()
}
