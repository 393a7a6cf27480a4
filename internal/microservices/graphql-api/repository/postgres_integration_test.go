package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"bookgraph/internal/microservices/graphql-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresStoreSuite exercises both SQL-backed stores against TEST_DATABASE_URL.
type PostgresStoreSuite struct {
	suite.Suite
	dsn  string
	pool *pgxpool.Pool
	gdb  *gorm.DB
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.dsn = os.Getenv("TEST_DATABASE_URL")
	if s.dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set, skipping postgres integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, s.dsn)
	s.Require().NoError(err)
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		s.T().Skipf("postgres not reachable: %v", err)
	}
	s.pool = pool

	gdb, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.gdb = gdb
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `DROP TABLE IF EXISTS books`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Exec(context.Background(), `DROP TABLE IF EXISTS books`)
		s.pool.Close()
	}
	if s.gdb != nil {
		if sqlDB, err := s.gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (s *PostgresStoreSuite) exercise(store BookStore) {
	ctx := context.Background()

	books, err := store.FindAll(ctx)
	s.Require().NoError(err)
	s.Empty(books)

	created := int64(1705315800000)
	first := &models.Book{Name: "Dune", Genre: "Sci-Fi", Author: "Frank Herbert", CreatedAt: &created}
	second := &models.Book{Name: "Untimed"}
	s.Require().NoError(store.Save(ctx, first))
	s.Require().NoError(store.Save(ctx, second))
	s.NotZero(first.ID)
	s.Greater(second.ID, first.ID)

	books, err = store.FindAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(books, 2)
	s.Equal("Frank Herbert", books[0].Author)
	s.Require().NotNil(books[0].CreatedAt)
	s.Equal(created, *books[0].CreatedAt)
	s.Nil(books[1].CreatedAt)
}

func (s *PostgresStoreSuite) TestGormStore() {
	s.Require().NoError(s.gdb.AutoMigrate(&models.Book{}))
	s.exercise(NewBookRepo(s.gdb))
}

func (s *PostgresStoreSuite) TestPgxStore() {
	repo := NewPgxBookRepo(s.pool)
	s.Require().NoError(repo.EnsureSchema(context.Background()))
	s.exercise(repo)
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}
