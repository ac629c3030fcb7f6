// Package visit builds the per-request booking page and form.
package visit

import (
	"log/slog"
	"net/http"

	"little_lemon/internal/form"
	"little_lemon/internal/services/booking"
)

// Recorder is a Navigator that remembers where the page wanted to go.
type Recorder struct {
	Path string
}

func (r *Recorder) Navigate(path string) {
	r.Path = path
}

type Deps struct {
	Querier   booking.SlotQuerier
	Submitter booking.Submitter
	Booking   booking.Config
}

type Visit struct {
	Page *booking.Page
	Form *form.Form
	Nav  *Recorder
}

func (d Deps) Open(log *slog.Logger) *Visit {
	nav := &Recorder{}
	page := booking.New(log, d.Booking, d.Querier, d.Submitter, nav)

	return &Visit{
		Page: page,
		Form: form.New(page, d.Booking.Location, d.Booking.Now),
		Nav:  nav,
	}
}

// Fill copies submitted values into the form. It reports false when the
// party size could not be committed.
func (v *Visit) Fill(date, slot, guests, occasion string) bool {
	v.Form.SetDate(date)
	if slot != "" {
		v.Form.SetTime(slot)
	}
	v.Form.SetOccasion(occasion)

	return v.Form.SetPartySizeInput(guests)
}

// StatusFor maps a failed outcome message to an HTTP status code.
func StatusFor(msg string) int {
	switch msg {
	case booking.MsgMissingFields:
		return http.StatusBadRequest
	case booking.MsgUnavailable:
		return http.StatusServiceUnavailable
	case booking.MsgFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
