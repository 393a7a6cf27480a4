package repository

import (
	"context"
	"fmt"

	"bookgraph/internal/microservices/graphql-api/models"

	"gorm.io/gorm"
)

// BookStore is the persistence collaborator behind the Book API.
// Save assigns b.ID.
type BookStore interface {
	FindAll(ctx context.Context) ([]models.Book, error)
	Save(ctx context.Context, b *models.Book) error
}

var _ BookStore = (*BookRepo)(nil)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

func (r *BookRepo) FindAll(ctx context.Context) ([]models.Book, error) {
	list := make([]models.Book, 0)
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return list, nil
}

func (r *BookRepo) Save(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("save book: %w", err)
	}
	return nil
}
