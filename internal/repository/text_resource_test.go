package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/ampserve/internal/database"
	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/repository"
)

type TextResourceRepositoryTestSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.TextResourceRepository
}

func (s *TextResourceRepositoryTestSuite) SetupSuite() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL)
	s.Require().NoError(err)
	s.pool = db.Pool()

	s.Require().NoError(database.RunMigrations(ctx, s.pool))

	s.repo = repository.NewTextResourceRepository(s.pool)
}

func (s *TextResourceRepositoryTestSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE text_resources")
	s.Require().NoError(err)
}

func (s *TextResourceRepositoryTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func TestTextResourceRepositorySuite(t *testing.T) {
	suite.Run(t, new(TextResourceRepositoryTestSuite))
}

func (s *TextResourceRepositoryTestSuite) TestGetByName_NotFound() {
	_, err := s.repo.GetByName(context.Background(), "missing")

	s.ErrorIs(err, domain.ErrResourceNotFound)
}

func (s *TextResourceRepositoryTestSuite) TestUpsert_CreatesAndReplaces() {
	ctx := context.Background()

	created, err := s.repo.Upsert(ctx, "sites", "alpha\nbeta")
	s.Require().NoError(err)
	s.Equal("alpha\nbeta", created.Body)

	updated, err := s.repo.Upsert(ctx, "sites", "gamma")
	s.Require().NoError(err)
	s.Equal("gamma", updated.Body)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))

	got, err := s.repo.GetByName(ctx, "sites")
	s.Require().NoError(err)
	s.Equal("gamma", got.Body)
}

func (s *TextResourceRepositoryTestSuite) TestListNames_Sorted() {
	ctx := context.Background()

	for _, name := range []string{"b", "c", "a"} {
		_, err := s.repo.Upsert(ctx, name, name)
		s.Require().NoError(err)
	}

	names, err := s.repo.ListNames(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"a", "b", "c"}, names)
}
