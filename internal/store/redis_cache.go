package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shlink-go/internal/shortener"
)

// RedisCacheRepository wraps a shortener.Repository with a Redis read-through cache.
type RedisCacheRepository struct {
	store  shortener.Repository
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
// A zero ttl keeps entries until they are evicted by Redis.
func NewRedisCacheRepository(
	store shortener.Repository, client redis.Cmdable, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "short_url:",
		ttl:    ttl,
	}
}

// Save stores a short URL in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Save(ctx, shortURL); err != nil {
		return err
	}

	r.cacheURL(ctx, shortURL)

	return nil
}

// GetByCode retrieves a short URL by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if url, err := r.getFromCache(ctx, code); err == nil {
		return url, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheURL(ctx, url)

	return url, nil
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	originalURL := result["original_url"]
	if originalURL == "" {
		return nil, shortener.ErrNotFound
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos).UTC()
		}
	}

	return &shortener.ShortURL{
		Code:        code,
		OriginalURL: originalURL,
		CreatedAt:   createdAt,
	}, nil
}

// cacheURL is best effort; the store stays the source of truth.
func (r *RedisCacheRepository) cacheURL(ctx context.Context, url *shortener.ShortURL) {
	key := r.prefix + string(url.Code)
	pipe := r.client.TxPipeline()

	pipe.HSet(ctx, key, map[string]any{
		"original_url": url.OriginalURL,
		"created_at":   url.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
