package shortener

import (
	"context"
	"time"
)

// CodeGenerator generates unique short codes.
type CodeGenerator func() string

// TokenStrategy generates a new random code for every URL it shortens.
type TokenStrategy struct {
	store        Repository
	generateCode CodeGenerator
	now          func() time.Time
}

// NewTokenStrategy creates a new token-based shortening strategy.
func NewTokenStrategy(store Repository, generator CodeGenerator) *TokenStrategy {
	return &TokenStrategy{
		store:        store,
		generateCode: generator,
		now:          time.Now,
	}
}

// Shorten stores longURL under a freshly generated code.
func (s *TokenStrategy) Shorten(ctx context.Context, longURL string) (*ShortURL, error) {
	shortURL := &ShortURL{
		Code:        Code(s.generateCode()),
		OriginalURL: longURL,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Save(ctx, shortURL); err != nil {
		return nil, err
	}

	return shortURL, nil
}
