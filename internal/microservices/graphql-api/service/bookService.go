package service

import (
	"context"
	"log/slog"

	"bookgraph/internal/microservices/graphql-api/models"
	"bookgraph/internal/microservices/graphql-api/repository"
)

type BookService interface {
	GetBooks(ctx context.Context) ([]models.Book, error)
	CreateBook(ctx context.Context, b *models.Book) error
}

type bookService struct {
	store  repository.BookStore
	logger *slog.Logger
}

func NewBookService(store repository.BookStore, logger *slog.Logger) BookService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookService{store: store, logger: logger}
}

func (s *bookService) GetBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

// CreateBook persists b as given; field values are not validated.
// Any caller-supplied ID is discarded so the store assigns one.
func (s *bookService) CreateBook(ctx context.Context, b *models.Book) error {
	b.ID = 0
	if err := s.store.Save(ctx, b); err != nil {
		s.logger.Error("book_create_failed", "error", err)
		return err
	}
	s.logger.Info("book_created", "id", b.ID, "name", b.Name)
	return nil
}
