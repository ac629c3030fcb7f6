// Package form keeps the reservation draft, validates it on every change
// and hands a valid draft to the page controller.
package form

import (
	"context"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"little_lemon/internal/availability"
	"little_lemon/internal/models"

	"github.com/go-playground/validator"
)

const (
	FieldDate     = "date"
	FieldTime     = "time"
	FieldGuests   = "guests"
	FieldOccasion = "occasion"
)

const (
	MsgDateRequired     = "Please choose a date."
	MsgDateInvalid      = "Please enter a valid date."
	MsgDateInPast       = "Please choose today or a later date."
	MsgTimeRequired     = "Please choose a time."
	MsgTimeUnavailable  = "Please choose one of the available times."
	MsgNoTimes          = "No times available for the selected date."
	MsgGuestsRange      = "Number of guests must be between 1 and 10."
	MsgOccasionRequired = "Please choose an occasion."

	WarnInvalid = "Please correct the highlighted fields before submitting."
	WarnNoTimes = "No times are available for the selected date. Please choose another date."
)

const (
	MinGuests = 1
	MaxGuests = 10
)

var fieldMessages = map[string]string{
	FieldDate:     MsgDateRequired,
	FieldTime:     MsgTimeRequired,
	FieldGuests:   MsgGuestsRange,
	FieldOccasion: MsgOccasionRequired,
}

// Controller owns the slot list and the submission flow.
type Controller interface {
	AvailableTimes() []models.TimeSlot
	ChangeDate(date string)
	SubmitForm(ctx context.Context, r models.Reservation)
}

type Form struct {
	ctrl     Controller
	loc      *time.Location
	now      func() time.Time
	validate *validator.Validate

	draft   models.Draft
	errors  models.ValidationErrors
	warning string
}

func New(ctrl Controller, loc *time.Location, now func() time.Time) *Form {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	f := &Form{
		ctrl:     ctrl,
		loc:      loc,
		now:      now,
		validate: newValidator(),
		draft: models.Draft{
			PartySize: MinGuests,
			Occasion:  models.OccasionBirthday,
		},
	}

	if times := ctrl.AvailableTimes(); len(times) > 0 {
		f.draft.Time = times[0]
	}

	f.revalidate()

	return f
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// SetDate records the date and lets the controller refresh the slot list.
// A selected time that is no longer offered moves to the first slot.
func (f *Form) SetDate(date string) {
	f.draft.Date = strings.TrimSpace(date)
	f.ctrl.ChangeDate(f.draft.Date)

	times := f.ctrl.AvailableTimes()
	if !slices.Contains(times, f.draft.Time) {
		f.draft.Time = ""
		if len(times) > 0 {
			f.draft.Time = times[0]
		}
	}

	f.revalidate()
}

func (f *Form) SetTime(slot string) {
	f.draft.Time = models.TimeSlot(strings.TrimSpace(slot))
	f.revalidate()
}

// SetPartySize commits n only when it is within [MinGuests, MaxGuests].
func (f *Form) SetPartySize(n int) bool {
	if n < MinGuests || n > MaxGuests {
		return false
	}

	f.draft.PartySize = n
	f.revalidate()

	return true
}

// SetPartySizeInput parses raw input; non-numeric or out of range input
// leaves the current value in place.
func (f *Form) SetPartySizeInput(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	return f.SetPartySize(n)
}

func (f *Form) SetOccasion(occasion string) {
	f.draft.Occasion = models.Occasion(strings.TrimSpace(occasion))
	f.revalidate()
}

func (f *Form) Draft() models.Draft {
	return f.draft
}

func (f *Form) Times() []models.TimeSlot {
	return f.ctrl.AvailableTimes()
}

// TimeDisabled reports whether the time selector has nothing to offer.
func (f *Form) TimeDisabled() bool {
	return len(f.ctrl.AvailableTimes()) == 0
}

func (f *Form) Errors() models.ValidationErrors {
	out := make(models.ValidationErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Valid() bool {
	return len(f.errors) == 0
}

func (f *Form) Warning() string {
	return f.warning
}

func (f *Form) Reservation() models.Reservation {
	return models.Reservation{
		Date:     f.draft.Date,
		Time:     string(f.draft.Time),
		Guests:   f.draft.PartySize,
		Occasion: string(f.draft.Occasion),
	}
}

// Submit delegates a valid draft to the controller and reports whether it did.
func (f *Form) Submit(ctx context.Context) bool {
	f.warning = ""

	if f.TimeDisabled() {
		f.warning = WarnNoTimes
		return false
	}

	if !f.Valid() {
		f.warning = WarnInvalid
		return false
	}

	f.ctrl.SubmitForm(ctx, f.Reservation())

	return true
}

func (f *Form) revalidate() {
	errs := models.ValidationErrors{}

	if err := f.validate.Struct(f.draft); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs[fe.Field()] = fieldMessages[fe.Field()]
			}
		}
	}

	if _, ok := errs[FieldDate]; !ok {
		if msg := f.checkDate(); msg != "" {
			errs[FieldDate] = msg
		}
	}

	times := f.ctrl.AvailableTimes()
	if len(times) == 0 {
		errs[FieldTime] = MsgNoTimes
	} else if _, ok := errs[FieldTime]; !ok && !slices.Contains(times, f.draft.Time) {
		errs[FieldTime] = MsgTimeUnavailable
	}

	f.errors = errs
}

func (f *Form) checkDate() string {
	date, err := availability.ParseDate(f.draft.Date, f.loc)
	if err != nil {
		return MsgDateInvalid
	}

	now := f.now().In(f.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, f.loc)

	if date.Before(today) {
		return MsgDateInPast
	}

	return ""
}
