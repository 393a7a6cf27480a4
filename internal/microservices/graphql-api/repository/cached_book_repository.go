package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"bookgraph/internal/microservices/graphql-api/models"

	"github.com/redis/go-redis/v9"
)

const (
	allBooksKey   = "books:all"
	generationKey = "books:gen"
)

var _ BookStore = (*CachedBookStore)(nil)

// CachedBookStore is a read-through Redis cache in front of another store.
// The cache is best effort: any Redis failure falls back to the inner store.
//
// Cached lists live under books:all:<gen>. Save bumps books:gen, so a list
// read before the bump can only ever be written under a key nobody reads.
type CachedBookStore struct {
	inner  BookStore
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger

	mu          sync.Mutex
	bypassUntil time.Time
}

func NewCachedBookStore(inner BookStore, rdb redis.Cmdable, ttl time.Duration) *CachedBookStore {
	return &CachedBookStore{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: slog.Default(),
	}
}

func (s *CachedBookStore) WithLogger(logger *slog.Logger) *CachedBookStore {
	s.logger = logger
	return s
}

func listKey(gen int64) string {
	return allBooksKey + ":" + strconv.FormatInt(gen, 10)
}

func (s *CachedBookStore) FindAll(ctx context.Context) ([]models.Book, error) {
	if s.bypassing() {
		return s.inner.FindAll(ctx)
	}

	// The generation must be read before the inner store.
	gen, err := s.rdb.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("cache_read_failed", "key", generationKey, "error", err)
		return s.inner.FindAll(ctx)
	}
	key := listKey(gen)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var books []models.Book
		jerr := json.Unmarshal(raw, &books)
		if jerr == nil {
			s.logger.Debug("cache_hit", "key", key, "count", len(books))
			return books, nil
		}
		s.logger.Warn("cache_decode_failed", "key", key, "error", jerr)
	case errors.Is(err, redis.Nil):
		s.logger.Debug("cache_miss", "key", key)
	default:
		s.logger.Warn("cache_read_failed", "key", key, "error", err)
	}

	books, err := s.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if payload, jerr := json.Marshal(books); jerr == nil {
		if serr := s.rdb.Set(ctx, key, payload, s.ttl).Err(); serr != nil {
			s.logger.Warn("cache_write_failed", "key", key, "error", serr)
		}
	}
	return books, nil
}

func (s *CachedBookStore) Save(ctx context.Context, b *models.Book) error {
	if err := s.inner.Save(ctx, b); err != nil {
		return err
	}
	if err := s.rdb.Incr(ctx, generationKey).Err(); err != nil {
		// Entries of the current generation may now be stale; skip the
		// cache until they have expired.
		s.logger.Warn("cache_invalidate_failed", "key", generationKey, "error", err)
		s.mu.Lock()
		s.bypassUntil = time.Now().Add(s.ttl)
		s.mu.Unlock()
	}
	return nil
}

func (s *CachedBookStore) bypassing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().Before(s.bypassUntil)
}
