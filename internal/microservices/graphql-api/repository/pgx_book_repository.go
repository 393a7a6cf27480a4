package repository

import (
	"context"
	"fmt"

	"bookgraph/internal/microservices/graphql-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const booksDDL = `
CREATE TABLE IF NOT EXISTS books (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	genre      TEXT NOT NULL DEFAULT '',
	author     TEXT NOT NULL DEFAULT '',
	created_at BIGINT
)`

var _ BookStore = (*PgxBookRepo)(nil)

// PgxBookRepo talks to Postgres through a pgx pool, without the ORM.
type PgxBookRepo struct {
	db *pgxpool.Pool
}

func NewPgxBookRepo(db *pgxpool.Pool) *PgxBookRepo {
	return &PgxBookRepo{db: db}
}

// EnsureSchema creates the books table when it does not exist yet.
func (r *PgxBookRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, booksDDL); err != nil {
		return fmt.Errorf("ensure books schema: %w", err)
	}
	return nil
}

func (r *PgxBookRepo) FindAll(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, genre, author, created_at FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Name, &b.Genre, &b.Author, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return books, nil
}

func (r *PgxBookRepo) Save(ctx context.Context, b *models.Book) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO books (name, genre, author, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		b.Name, b.Genre, b.Author, b.CreatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("save book: %w", err)
	}
	return nil
}
