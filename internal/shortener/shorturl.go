package shortener

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no short URL matches a code.
var ErrNotFound = errors.New("short url not found")

// Code represents a short URL code.
type Code string

// ShortURL represents a shortened URL entity.
type ShortURL struct {
	Code        Code
	OriginalURL string
	CreatedAt   time.Time
}

// Repository defines the storage operations for short URLs.
type Repository interface {
	Save(ctx context.Context, shortURL *ShortURL) error
	// GetByCode returns ErrNotFound when the code is unknown.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)
}
