package form

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"little_lemon/internal/models"
	"little_lemon/internal/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = func() time.Time { return time.Date(2026, time.January, 10, 18, 30, 0, 0, time.UTC) }

type fakeController struct {
	times     []models.TimeSlot
	byDate    map[string][]models.TimeSlot
	dates     []string
	submitted []models.Reservation
}

func (c *fakeController) AvailableTimes() []models.TimeSlot {
	return c.times
}

func (c *fakeController) ChangeDate(date string) {
	c.dates = append(c.dates, date)
	if times, ok := c.byDate[date]; ok {
		c.times = times
	}
}

func (c *fakeController) SubmitForm(_ context.Context, r models.Reservation) {
	c.submitted = append(c.submitted, r)
}

func newForm(ctrl *fakeController) *Form {
	return New(ctrl, time.UTC, now)
}

func fill(f *Form) {
	f.SetDate("2026-01-15")
	f.SetTime("19:00")
	f.SetPartySizeInput("4")
	f.SetOccasion("Anniversary")
}

func TestDefaults(t *testing.T) {
	ctrl := &fakeController{times: []models.TimeSlot{"17:00", "18:00", "19:00"}}
	f := newForm(ctrl)

	d := f.Draft()
	assert.Equal(t, "", d.Date)
	assert.Equal(t, models.TimeSlot("17:00"), d.Time)
	assert.Equal(t, 1, d.PartySize)
	assert.Equal(t, models.OccasionBirthday, d.Occasion)

	assert.False(t, f.Valid())
	assert.Equal(t, models.ValidationErrors{FieldDate: MsgDateRequired}, f.Errors())
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		apply func(f *Form)
		want  models.ValidationErrors
	}{
		{
			name:  "complete draft",
			apply: fill,
			want:  models.ValidationErrors{},
		},
		{
			name: "today is allowed",
			apply: func(f *Form) {
				fill(f)
				f.SetDate("2026-01-10")
			},
			want: models.ValidationErrors{},
		},
		{
			name: "past date",
			apply: func(f *Form) {
				fill(f)
				f.SetDate("2026-01-09")
			},
			want: models.ValidationErrors{FieldDate: MsgDateInPast},
		},
		{
			name: "malformed date",
			apply: func(f *Form) {
				fill(f)
				f.SetDate("next friday")
			},
			want: models.ValidationErrors{FieldDate: MsgDateInvalid},
		},
		{
			name: "empty time",
			apply: func(f *Form) {
				fill(f)
				f.SetTime("")
			},
			want: models.ValidationErrors{FieldTime: MsgTimeRequired},
		},
		{
			name: "time not offered",
			apply: func(f *Form) {
				fill(f)
				f.SetTime("03:00")
			},
			want: models.ValidationErrors{FieldTime: MsgTimeUnavailable},
		},
		{
			name: "empty occasion",
			apply: func(f *Form) {
				fill(f)
				f.SetOccasion("")
			},
			want: models.ValidationErrors{FieldOccasion: MsgOccasionRequired},
		},
		{
			name: "unknown occasion",
			apply: func(f *Form) {
				fill(f)
				f.SetOccasion("Wedding")
			},
			want: models.ValidationErrors{FieldOccasion: MsgOccasionRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newForm(&fakeController{times: []models.TimeSlot{"17:00", "18:00", "19:00"}})
			tt.apply(f)

			assert.Equal(t, tt.want, f.Errors())
			assert.Equal(t, len(tt.want) == 0, f.Valid())
		})
	}
}

func TestPartySizeRejectsOutOfRange(t *testing.T) {
	f := newForm(&fakeController{times: []models.TimeSlot{"19:00"}})

	require.True(t, f.SetPartySizeInput("6"))

	for _, raw := range []string{"0", "11", "-1", "abc", "", "4.5"} {
		assert.False(t, f.SetPartySizeInput(raw), raw)
		assert.Equal(t, 6, f.Draft().PartySize, raw)
	}

	assert.False(t, f.SetPartySize(100))
	assert.Equal(t, 6, f.Draft().PartySize)

	assert.True(t, f.SetPartySize(10))
	assert.Equal(t, 10, f.Draft().PartySize)
}

func TestSetDateDispatchesAndSyncsTime(t *testing.T) {
	ctrl := &fakeController{
		times: []models.TimeSlot{"17:00", "18:00", "19:00"},
		byDate: map[string][]models.TimeSlot{
			"2026-01-15": {"18:00", "19:00", "20:00"},
			"2026-01-20": {"19:00", "22:00"},
		},
	}
	f := newForm(ctrl)

	f.SetDate("2026-01-15")
	assert.Equal(t, []string{"2026-01-15"}, ctrl.dates)
	assert.Equal(t, models.TimeSlot("18:00"), f.Draft().Time)

	f.SetTime("19:00")
	f.SetDate("2026-01-20")
	assert.Equal(t, models.TimeSlot("19:00"), f.Draft().Time, "kept because still offered")
	assert.Equal(t, []models.TimeSlot{"19:00", "22:00"}, f.Times())
}

func TestSubmitDelegatesValidDraft(t *testing.T) {
	ctrl := &fakeController{times: []models.TimeSlot{"17:00", "18:00", "19:00"}}
	f := newForm(ctrl)
	fill(f)

	assert.True(t, f.Submit(context.Background()))
	assert.Empty(t, f.Warning())
	assert.Equal(t, []models.Reservation{
		{Date: "2026-01-15", Time: "19:00", Guests: 4, Occasion: "Anniversary"},
	}, ctrl.submitted)
}

func TestSubmitBlockedWhenInvalid(t *testing.T) {
	ctrl := &fakeController{times: []models.TimeSlot{"17:00", "18:00", "19:00"}}
	f := newForm(ctrl)
	f.SetTime("19:00")

	assert.False(t, f.Submit(context.Background()))
	assert.Equal(t, WarnInvalid, f.Warning())
	assert.Empty(t, ctrl.submitted)
}

func TestSubmitBlockedWithoutTimes(t *testing.T) {
	ctrl := &fakeController{
		times:  []models.TimeSlot{"17:00"},
		byDate: map[string][]models.TimeSlot{"2026-01-15": {}},
	}
	f := newForm(ctrl)
	fill(f)

	assert.True(t, f.TimeDisabled())
	assert.Equal(t, MsgNoTimes, f.Errors()[FieldTime])
	assert.False(t, f.Submit(context.Background()))
	assert.Equal(t, WarnNoTimes, f.Warning())
	assert.Empty(t, ctrl.submitted)
}

func TestSubmitClearsPreviousWarning(t *testing.T) {
	ctrl := &fakeController{times: []models.TimeSlot{"19:00"}}
	f := newForm(ctrl)

	require.False(t, f.Submit(context.Background()))
	require.NotEmpty(t, f.Warning())

	fill(f)
	assert.True(t, f.Submit(context.Background()))
	assert.Empty(t, f.Warning())
}

type navigator struct{ path string }

func (n *navigator) Navigate(path string) { n.path = path }

type querier map[string][]models.TimeSlot

func (q querier) AvailableTimes(date time.Time) ([]models.TimeSlot, error) {
	if times, ok := q[date.Format("2006-01-02")]; ok {
		return times, nil
	}
	return []models.TimeSlot{"17:00", "18:00", "19:00", "20:00", "21:00", "22:00"}, nil
}

type submitter struct {
	ok  bool
	got []models.Reservation
}

func (s *submitter) Submit(_ context.Context, r models.Reservation) (bool, error) {
	s.got = append(s.got, r)
	return s.ok, nil
}

func newPage(q booking.SlotQuerier, s booking.Submitter, nav booking.Navigator) *booking.Page {
	cfg := booking.Config{Location: time.UTC, Now: now}
	return booking.New(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, q, s, nav)
}

func TestScenarioConfirmedBooking(t *testing.T) {
	nav := &navigator{}
	sub := &submitter{ok: true}
	page := newPage(querier{}, sub, nav)
	f := New(page, time.UTC, now)

	fill(f)
	require.True(t, f.Submit(context.Background()))

	assert.Equal(t, []models.Reservation{
		{Date: "2026-01-15", Time: "19:00", Guests: 4, Occasion: "Anniversary"},
	}, sub.got)
	assert.Equal(t, models.StatusSuccess, page.Outcome().Status)
	assert.Equal(t, booking.ConfirmedPath, nav.path)
}

func TestScenarioNoTimesForDate(t *testing.T) {
	sub := &submitter{ok: true}
	page := newPage(querier{"2026-01-15": {}}, sub, &navigator{})
	f := New(page, time.UTC, now)

	fill(f)

	assert.True(t, f.TimeDisabled())
	assert.Equal(t, MsgNoTimes, f.Errors()[FieldTime])
	assert.False(t, f.Submit(context.Background()))
	assert.Empty(t, sub.got)
}

func TestScenarioSubmitterMissing(t *testing.T) {
	nav := &navigator{}
	page := newPage(querier{}, nil, nav)
	f := New(page, time.UTC, now)

	fill(f)
	require.True(t, f.Submit(context.Background()))

	assert.Equal(t, "Booking service is currently unavailable.", page.Outcome().Message)
	assert.Empty(t, nav.path)
}

func TestScenarioSubmitterRejects(t *testing.T) {
	nav := &navigator{}
	page := newPage(querier{}, &submitter{ok: false}, nav)
	f := New(page, time.UTC, now)

	fill(f)
	require.True(t, f.Submit(context.Background()))

	assert.Equal(t, "Failed to submit your reservation.", page.Outcome().Message)
	assert.Empty(t, nav.path)
}
