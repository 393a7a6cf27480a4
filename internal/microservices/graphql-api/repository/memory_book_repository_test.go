package repository

import (
	"context"
	"sync"
	"testing"

	"bookgraph/internal/microservices/graphql-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMemoryBookRepo_EmptyStore(t *testing.T) {
	repo := NewMemoryBookRepo()

	books, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestMemoryBookRepo_SaveAssignsIncreasingIDs(t *testing.T) {
	repo := NewMemoryBookRepo()
	ctx := context.Background()

	first := &models.Book{Name: "Dune", Genre: "Sci-Fi", Author: "Frank Herbert", CreatedAt: int64Ptr(1705315800000)}
	second := &models.Book{Name: "Emma"}
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	books, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Dune", books[0].Name)
	assert.Equal(t, int64(1705315800000), *books[0].CreatedAt)
	assert.Nil(t, books[1].CreatedAt)
}

func TestMemoryBookRepo_StoredRowsAreDetached(t *testing.T) {
	repo := NewMemoryBookRepo()
	ctx := context.Background()

	b := &models.Book{Name: "Dune", CreatedAt: int64Ptr(1)}
	require.NoError(t, repo.Save(ctx, b))
	*b.CreatedAt = 99
	b.Name = "changed"

	books, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dune", books[0].Name)
	assert.Equal(t, int64(1), *books[0].CreatedAt)
}

func TestMemoryBookRepo_ConcurrentSaves(t *testing.T) {
	repo := NewMemoryBookRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Save(ctx, &models.Book{Name: "copy"}))
		}()
	}
	wg.Wait()

	books, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 50)

	seen := make(map[int64]bool)
	for _, b := range books {
		assert.False(t, seen[b.ID], "duplicate id %d", b.ID)
		seen[b.ID] = true
	}
}

func TestMemoryBookRepo_CancelledContext(t *testing.T) {
	repo := NewMemoryBookRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Save(ctx, &models.Book{}), context.Canceled)
}
