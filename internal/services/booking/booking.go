// Package booking holds the state of one visit to the reservations page:
// the slot list for the selected date and the outcome of the latest
// submission. A Page is owned by a single request and is not safe for
// concurrent use.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"little_lemon/internal/availability"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/models"
)

const (
	HomePath      = "/"
	ConfirmedPath = "/booking-confirmed"
)

const (
	MsgMissingFields = "Please fill in all required fields."
	MsgUnavailable   = "Booking service is currently unavailable."
	MsgFailed        = "Failed to submit your reservation."
	MsgUnexpected    = "An unexpected error occurred. Please try again later."
)

var fallbackTimes = []models.TimeSlot{"17:00", "18:00", "19:00", "20:00", "21:00", "22:00"}

type SlotQuerier interface {
	AvailableTimes(date time.Time) ([]models.TimeSlot, error)
}

type Submitter interface {
	Submit(ctx context.Context, r models.Reservation) (bool, error)
}

type Navigator interface {
	Navigate(path string)
}

type Config struct {
	// SubmitDelay simulates network latency before the submitter is called.
	SubmitDelay time.Duration
	Location    *time.Location
	Now         func() time.Time
}

type Page struct {
	log       *slog.Logger
	cfg       Config
	querier   SlotQuerier
	submitter Submitter
	nav       Navigator

	slots   Slots
	outcome models.Outcome
}

// New builds a page and loads today's slots. Nil collaborators are allowed:
// a nil querier yields the fallback list, a nil submitter makes every
// submission fail as unavailable.
func New(log *slog.Logger, cfg Config, querier SlotQuerier, submitter Submitter, nav Navigator) *Page {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	p := &Page{
		log:       log,
		cfg:       cfg,
		querier:   querier,
		submitter: submitter,
		nav:       nav,
		outcome:   models.Outcome{Status: models.StatusIdle},
	}

	p.slots = InitializeTimes(log, querier, cfg.Now().In(cfg.Location))

	return p
}

func (p *Page) Slots() Slots {
	return p.slots
}

func (p *Page) AvailableTimes() []models.TimeSlot {
	return p.slots.Available()
}

func (p *Page) Dispatch(action Action) {
	p.slots = UpdateTimes(p.log, p.querier, p.cfg.Location, p.slots, action)
}

func (p *Page) ChangeDate(date string) {
	p.Dispatch(Action{Type: ActionUpdateTimes, Date: date})
}

func (p *Page) Outcome() models.Outcome {
	return p.outcome
}

func (p *Page) Pending() bool {
	return p.outcome.Status == models.StatusPending
}

// SubmitForm runs one submission attempt. On success the navigator is sent
// to the confirmation view. If ctx ends during the simulated delay the page
// is treated as gone and nothing else happens.
func (p *Page) SubmitForm(ctx context.Context, r models.Reservation) {
	const op = "services.booking.SubmitForm"

	log := p.log.With(slog.String("op", op))

	if r.Date == "" || r.Time == "" || r.Guests == 0 {
		log.Warn("reservation is missing required fields")

		p.fail(MsgMissingFields)

		return
	}

	p.outcome = models.Outcome{Status: models.StatusPending}

	if err := p.wait(ctx); err != nil {
		log.Warn("submission abandoned", sl.Err(err))

		return
	}

	if p.submitter == nil {
		log.Error("booking submitter is not configured")

		p.fail(MsgUnavailable)

		return
	}

	ok, err := submit(ctx, p.submitter, r)
	if err != nil {
		log.Error("failed to submit reservation", sl.Err(err))

		p.fail(MsgUnexpected)

		return
	}

	if !ok {
		log.Warn("reservation was rejected by the booking service")

		p.fail(MsgFailed)

		return
	}

	p.outcome = models.Outcome{Status: models.StatusSuccess}

	log.Info("reservation confirmed", slog.String("date", r.Date), slog.String("time", r.Time))

	if p.nav != nil {
		p.nav.Navigate(ConfirmedPath)
	}
}

func (p *Page) fail(msg string) {
	p.outcome = models.Outcome{Status: models.StatusFailed, Message: msg}
}

func (p *Page) wait(ctx context.Context) error {
	if p.cfg.SubmitDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.cfg.SubmitDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func submit(ctx context.Context, s Submitter, r models.Reservation) (ok bool, err error) {
	const op = "services.booking.submit"

	defer func() {
		if rec := recover(); rec != nil {
			ok, err = false, fmt.Errorf("%s: submitter panicked: %v", op, rec)
		}
	}()

	ok, err = s.Submit(ctx, r)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

var _ SlotQuerier = (*availability.Generator)(nil)
