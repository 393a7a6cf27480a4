package repository

import (
	"context"
	"sync"

	"bookgraph/internal/microservices/graphql-api/models"
)

var _ BookStore = (*MemoryBookRepo)(nil)

// MemoryBookRepo keeps books in process memory. IDs start at 1 and only grow.
type MemoryBookRepo struct {
	mu     sync.Mutex
	nextID int64
	books  []models.Book
}

func NewMemoryBookRepo() *MemoryBookRepo {
	return &MemoryBookRepo{nextID: 1}
}

func (r *MemoryBookRepo) FindAll(ctx context.Context) ([]models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Book, len(r.books))
	for i, b := range r.books {
		out[i] = copyBook(b)
	}
	return out, nil
}

func (r *MemoryBookRepo) Save(ctx context.Context, b *models.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = r.nextID
	r.nextID++
	r.books = append(r.books, copyBook(*b))
	return nil
}

// copyBook detaches the CreatedAt pointer so callers cannot mutate stored rows.
func copyBook(b models.Book) models.Book {
	if b.CreatedAt != nil {
		v := *b.CreatedAt
		b.CreatedAt = &v
	}
	return b
}
