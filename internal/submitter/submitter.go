// Package submitter stands in for a booking backend. It only checks the
// shape of a reservation and never talks to the network.
package submitter

import (
	"context"
	"log/slog"

	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/models"

	"github.com/go-playground/validator"
)

type payload struct {
	Date   string `validate:"required"`
	Time   string `validate:"required"`
	Guests int    `validate:"required,min=1,max=10"`
}

type Submitter struct {
	log      *slog.Logger
	validate *validator.Validate
}

func New(log *slog.Logger) *Submitter {
	return &Submitter{
		log:      log,
		validate: validator.New(),
	}
}

// Submit reports whether the reservation has a date, a time and between 1 and 10 guests.
func (s *Submitter) Submit(_ context.Context, r models.Reservation) (bool, error) {
	const op = "submitter.Submit"

	log := s.log.With(slog.String("op", op))

	err := s.validate.Struct(payload{
		Date:   r.Date,
		Time:   r.Time,
		Guests: r.Guests,
	})
	if err != nil {
		log.Error("reservation rejected", sl.Err(err))

		return false, nil
	}

	log.Info("booking submitted successfully",
		slog.String("date", r.Date),
		slog.String("time", r.Time),
		slog.Int("guests", r.Guests),
		slog.String("occasion", r.Occasion),
	)

	return true, nil
}
