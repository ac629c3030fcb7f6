package submitter

import (
	"context"
	"log/slog"
	"time"

	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/models"

	"github.com/google/uuid"
)

type Inner interface {
	Submit(ctx context.Context, r models.Reservation) (bool, error)
}

type Publisher interface {
	PublishReservation(ctx context.Context, n models.Notification) error
}

// Notifying publishes every reservation the wrapped submitter accepts.
// A failed publish is logged and does not change the result.
type Notifying struct {
	inner     Inner
	publisher Publisher
	log       *slog.Logger
}

func WithNotifications(inner Inner, publisher Publisher, log *slog.Logger) *Notifying {
	return &Notifying{
		inner:     inner,
		publisher: publisher,
		log:       log,
	}
}

func (n *Notifying) Submit(ctx context.Context, r models.Reservation) (bool, error) {
	const op = "submitter.Notifying.Submit"

	ok, err := n.inner.Submit(ctx, r)
	if err != nil || !ok {
		return ok, err
	}

	msg := models.Notification{
		Reference:   uuid.NewString(),
		Date:        r.Date,
		Time:        r.Time,
		Guests:      r.Guests,
		Occasion:    r.Occasion,
		SubmittedAt: time.Now(),
	}

	if err := n.publisher.PublishReservation(ctx, msg); err != nil {
		n.log.Error("failed to publish reservation notification",
			slog.String("op", op),
			slog.String("reference", msg.Reference),
			sl.Err(err),
		)
	}

	return true, nil
}
