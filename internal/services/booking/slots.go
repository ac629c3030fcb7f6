package booking

import (
	"fmt"
	"log/slog"
	"time"

	"little_lemon/internal/availability"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/models"
)

type ActionType string

const ActionUpdateTimes ActionType = "UPDATE_TIMES"

type Action struct {
	Type ActionType
	Date string
}

// Slots is the reducer state. Times keeps the last non-empty list the
// querier produced; SoldOut marks that the query for Date came back empty.
type Slots struct {
	Times   []models.TimeSlot
	Date    string
	SoldOut bool
}

// Available returns the selectable slots for the current date.
func (s Slots) Available() []models.TimeSlot {
	if s.SoldOut {
		return nil
	}

	return s.Times
}

func FallbackTimes() []models.TimeSlot {
	return append([]models.TimeSlot(nil), fallbackTimes...)
}

// InitializeTimes queries today's slots, using the fallback list when the
// querier is missing, fails or has nothing.
func InitializeTimes(log *slog.Logger, q SlotQuerier, today time.Time) Slots {
	const op = "services.booking.InitializeTimes"

	if q == nil {
		return Slots{Times: FallbackTimes()}
	}

	times, err := query(q, today)
	if err != nil {
		log.Error("failed to query today's times", slog.String("op", op), sl.Err(err))

		return Slots{Times: FallbackTimes()}
	}

	if len(times) == 0 {
		return Slots{Times: FallbackTimes()}
	}

	return Slots{Times: times}
}

// UpdateTimes is the slot reducer. It never drops a list it already has:
// a failed query keeps state as is, an empty one keeps Times and flags SoldOut.
func UpdateTimes(log *slog.Logger, q SlotQuerier, loc *time.Location, state Slots, action Action) Slots {
	const op = "services.booking.UpdateTimes"

	if action.Type != ActionUpdateTimes {
		return state
	}

	if action.Date == "" || q == nil {
		return state
	}

	log = log.With(slog.String("op", op), slog.String("date", action.Date))

	date, err := availability.ParseDate(action.Date, loc)
	if err != nil {
		log.Warn("ignoring date change", sl.Err(err))

		return state
	}

	times, err := query(q, date)
	if err != nil {
		log.Error("failed to query times", sl.Err(err))

		return state
	}

	if len(times) == 0 {
		return Slots{Times: state.Times, Date: action.Date, SoldOut: true}
	}

	return Slots{Times: times, Date: action.Date}
}

func query(q SlotQuerier, date time.Time) (times []models.TimeSlot, err error) {
	const op = "services.booking.query"

	defer func() {
		if rec := recover(); rec != nil {
			times, err = nil, fmt.Errorf("%s: querier panicked: %v", op, rec)
		}
	}()

	times, err = q.AvailableTimes(date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return times, nil
}
