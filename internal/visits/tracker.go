package visits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shlink-go/internal/shortener"
)

// Clock returns the current time.
type Clock func() time.Time

// Tracker records visits to short URLs and reads them back.
type Tracker struct {
	repo Repository
	now  Clock
}

// NewTracker creates a new visit tracker.
func NewTracker(repo Repository, now Clock) *Tracker {
	if now == nil {
		now = time.Now
	}

	return &Tracker{repo: repo, now: now}
}

// Track persists a visit to code using the user agent, referer and remote
// address found in visitor. A nil visitor records a visit with no metadata.
func (t *Tracker) Track(ctx context.Context, code shortener.Code, visitor VisitorContext) error {
	if _, err := t.resolve(ctx, code); err != nil {
		return err
	}

	visit := &Visit{
		ID:         uuid.NewString(),
		ShortCode:  code,
		UserAgent:  visitor.lookup(KeyUserAgent),
		Referer:    visitor.lookup(KeyReferer),
		RemoteAddr: visitor.lookup(KeyRemoteAddr),
		VisitedAt:  t.now().UTC(),
	}

	if err := t.repo.SaveVisit(ctx, visit); err != nil {
		return fmt.Errorf("save visit for %q: %w", string(code), err)
	}

	return nil
}

// ListVisits returns every visit to code, most recent first.
func (t *Tracker) ListVisits(ctx context.Context, code shortener.Code) ([]Visit, error) {
	if _, err := t.resolve(ctx, code); err != nil {
		return nil, err
	}

	list, err := t.repo.ListVisits(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list visits for %q: %w", string(code), err)
	}

	return list, nil
}

func (t *Tracker) resolve(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	shortURL, err := t.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, &NotFoundError{Code: code}
		}

		return nil, fmt.Errorf("find short url %q: %w", string(code), err)
	}

	return shortURL, nil
}
