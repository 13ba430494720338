package handlers

import (
	"context"
	"time"

	"github.com/serroba/shlink-go/internal/messaging"
	"github.com/serroba/shlink-go/internal/shortener"
	"github.com/serroba/shlink-go/internal/visits"
)

// Tracking decides how the redirect endpoint records visits.
type Tracking struct {
	mode  string
	track func(ctx context.Context, code shortener.Code, visitor visits.VisitorContext) error
}

// SyncTracking records each visit before the redirect is answered.
func SyncTracking(tracker *visits.Tracker) Tracking {
	return Tracking{mode: "sync", track: tracker.Track}
}

// AsyncTracking publishes each visit for a consumer to record.
func AsyncTracking(publish messaging.Publish[visits.Event]) Tracking {
	return Tracking{
		mode: "async",
		track: func(ctx context.Context, code shortener.Code, visitor visits.VisitorContext) error {
			return publish(ctx, &visits.Event{
				ShortCode:  string(code),
				Visitor:    visitor,
				OccurredAt: time.Now().UTC(),
			})
		},
	}
}

// Mode is "sync" or "async".
func (t Tracking) Mode() string {
	return t.mode
}
