package visits

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/shlink-go/internal/messaging"
	"github.com/serroba/shlink-go/internal/shortener"
	"go.uber.org/zap"
)

// TopicVisitTracked is the stream visits are published to when tracking is asynchronous.
const TopicVisitTracked = "visit.tracked"

// Event is a visit waiting to be recorded.
type Event struct {
	ShortCode  string         `json:"shortCode"`
	Visitor    VisitorContext `json:"visitor"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// NewEventHandler returns a handler that records events through the tracker.
// Events for unknown short codes are dropped since redelivery cannot fix them.
func NewEventHandler(tracker *Tracker, logger *zap.Logger) messaging.Handler[Event] {
	return func(ctx context.Context, event *Event) error {
		err := tracker.Track(ctx, shortener.Code(event.ShortCode), event.Visitor)

		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			logger.Warn("dropping visit for unknown short code",
				zap.String("code", event.ShortCode),
				zap.Time("occurredAt", event.OccurredAt),
			)

			return nil
		}

		return err
	}
}
