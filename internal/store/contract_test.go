package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/visits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is what every store implements.
type backend interface {
	shortener.Repository
	visits.Repository
	Ping(ctx context.Context) (bool, error)
}

func ptr(s string) *string { return &s }

func testVisit(id string, code shortener.Code, at time.Time) *visits.Visit {
	return &visits.Visit{
		ID:         id,
		ShortCode:  code,
		UserAgent:  ptr("UA-" + id),
		RemoteAddr: ptr("10.0.0.1"),
		VisitedAt:  at,
	}
}

// runContract exercises the behaviour shared by all stores. newBackend must
// return an empty store.
func runContract(t *testing.T, newBackend func(t *testing.T) backend) {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and get by code", func(t *testing.T) {
		s := newBackend(t)
		shortURL := &shortener.ShortURL{Code: "abc123", OriginalURL: "https://example.com", CreatedAt: base}

		require.NoError(t, s.Save(ctx, shortURL))

		got, err := s.GetByCode(ctx, "abc123")

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("abc123"), got.Code)
		assert.Equal(t, "https://example.com", got.OriginalURL)
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("save keeps the first url for a code", func(t *testing.T) {
		s := newBackend(t)

		require.NoError(t, s.Save(ctx, &shortener.ShortURL{Code: "dup", OriginalURL: "https://old.com", CreatedAt: base}))
		require.NoError(t, s.Save(ctx, &shortener.ShortURL{Code: "dup", OriginalURL: "https://new.com", CreatedAt: base}))

		got, err := s.GetByCode(ctx, "dup")

		require.NoError(t, err)
		assert.Equal(t, "https://old.com", got.OriginalURL)
	})

	t.Run("get unknown code returns ErrNotFound", func(t *testing.T) {
		s := newBackend(t)

		got, err := s.GetByCode(ctx, "missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("lists visits newest first", func(t *testing.T) {
		s := newBackend(t)
		require.NoError(t, s.Save(ctx, &shortener.ShortURL{Code: "abc123", OriginalURL: "https://example.com", CreatedAt: base}))
		require.NoError(t, s.Save(ctx, &shortener.ShortURL{Code: "other", OriginalURL: "https://other.com", CreatedAt: base}))

		require.NoError(t, s.SaveVisit(ctx, testVisit("v1", "abc123", base.Add(time.Minute))))
		require.NoError(t, s.SaveVisit(ctx, testVisit("v2", "abc123", base.Add(3*time.Minute))))
		require.NoError(t, s.SaveVisit(ctx, testVisit("v3", "abc123", base.Add(2*time.Minute))))
		require.NoError(t, s.SaveVisit(ctx, testVisit("v4", "other", base.Add(time.Hour))))

		got, err := s.ListVisits(ctx, "abc123")

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "v2", got[0].ID)
		assert.Equal(t, "v3", got[1].ID)
		assert.Equal(t, "v1", got[2].ID)
		assert.Equal(t, "UA-v2", *got[0].UserAgent)
		assert.Nil(t, got[0].Referer)
		assert.Equal(t, "10.0.0.1", *got[0].RemoteAddr)
		assert.True(t, base.Add(3*time.Minute).Equal(got[0].VisitedAt))
	})

	t.Run("equal timestamps list the latest insert first", func(t *testing.T) {
		s := newBackend(t)
		require.NoError(t, s.Save(ctx, &shortener.ShortURL{Code: "tie", OriginalURL: "https://example.com", CreatedAt: base}))

		require.NoError(t, s.SaveVisit(ctx, testVisit("first", "tie", base)))
		require.NoError(t, s.SaveVisit(ctx, testVisit("second", "tie", base)))

		got, err := s.ListVisits(ctx, "tie")

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "second", got[0].ID)
		assert.Equal(t, "first", got[1].ID)
	})

	t.Run("lists no visits as empty", func(t *testing.T) {
		s := newBackend(t)
		require.NoError(t, s.Save(ctx, &shortener.ShortURL{Code: "quiet", OriginalURL: "https://example.com", CreatedAt: base}))

		got, err := s.ListVisits(ctx, "quiet")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ping succeeds", func(t *testing.T) {
		s := newBackend(t)

		ok, err := s.Ping(ctx)

		require.NoError(t, err)
		assert.True(t, ok)
	})
}
