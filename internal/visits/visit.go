package visits

import (
	"context"
	"fmt"
	"time"

	"github.com/serroba/shlink-go/internal/shortener"
)

// Conventional CGI keys read from a VisitorContext.
const (
	KeyUserAgent  = "HTTP_USER_AGENT"
	KeyReferer    = "HTTP_REFERER"
	KeyRemoteAddr = "REMOTE_ADDR"
)

// VisitorContext carries request metadata about the visitor.
type VisitorContext map[string]string

// NewVisitorContext builds a VisitorContext, leaving out empty values.
func NewVisitorContext(userAgent, referer, remoteAddr string) VisitorContext {
	ctx := VisitorContext{}

	for key, value := range map[string]string{
		KeyUserAgent:  userAgent,
		KeyReferer:    referer,
		KeyRemoteAddr: remoteAddr,
	} {
		if value != "" {
			ctx[key] = value
		}
	}

	return ctx
}

// lookup returns nil when key is missing or empty.
func (c VisitorContext) lookup(key string) *string {
	value, ok := c[key]
	if !ok || value == "" {
		return nil
	}

	return &value
}

// Visit is one recorded access to a short URL. Visits are never updated.
type Visit struct {
	ID         string         `json:"-"`
	ShortCode  shortener.Code `json:"-"`
	UserAgent  *string        `json:"userAgent"`
	Referer    *string        `json:"referer"`
	RemoteAddr *string        `json:"remoteAddr"`
	VisitedAt  time.Time      `json:"date"`
}

// Repository is the persistence boundary of the Tracker.
type Repository interface {
	// GetByCode returns shortener.ErrNotFound when the code is unknown.
	GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error)
	// SaveVisit inserts and commits a single visit.
	SaveVisit(ctx context.Context, visit *Visit) error
	// ListVisits returns the visits of a code, most recent first.
	ListVisits(ctx context.Context, code shortener.Code) ([]Visit, error)
}

// NotFoundError reports a short code that does not resolve to a short URL.
type NotFoundError struct {
	Code shortener.Code
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("short code %q not found", string(e.Code))
}

func (e *NotFoundError) Unwrap() error {
	return shortener.ErrNotFound
}
