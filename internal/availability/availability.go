// Package availability fakes daily table availability with a seeded
// pseudo-random generator. The same calendar day always yields the same slots.
package availability

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"little_lemon/internal/models"
)

const (
	modulus    int64 = 1<<35 - 31
	multiplier int64 = 185852

	firstHour = 17
	lastHour  = 23

	DateLayout = "2006-01-02"
)

var ErrInvalidDate = errors.New("invalid date")

var fallbackTimes = []models.TimeSlot{"19:00", "20:00"}

type Generator struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Generator {
	return &Generator{log: log}
}

// AvailableTimes returns the slots for the calendar day of date.
// A zero date yields an empty list.
func (g *Generator) AvailableTimes(date time.Time) ([]models.TimeSlot, error) {
	return Times(g.log, date), nil
}

func Times(log *slog.Logger, date time.Time) []models.TimeSlot {
	if date.IsZero() {
		log.Error("invalid date provided to availability generator")

		return []models.TimeSlot{}
	}

	return generate(seededRandom(int64(date.Day())))
}

// ParseDate parses a YYYY-MM-DD string in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	const op = "availability.ParseDate"

	if loc == nil {
		loc = time.Local
	}

	date, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidDate, value)
	}

	return date, nil
}

// seededRandom is a Park-Miller style LCG returning values in [0,1).
func seededRandom(seed int64) func() float64 {
	s := seed % modulus

	return func() float64 {
		s = s * multiplier % modulus

		return float64(s) / float64(modulus)
	}
}

func generate(random func() float64) []models.TimeSlot {
	var result []models.TimeSlot

	for h := firstHour; h <= lastHour; h++ {
		if random() < 0.5 {
			result = append(result, models.TimeSlot(fmt.Sprintf("%d:00", h)))
		}
		if random() < 0.5 {
			result = append(result, models.TimeSlot(fmt.Sprintf("%d:30", h)))
		}
	}

	if len(result) == 0 {
		result = append([]models.TimeSlot(nil), fallbackTimes...)
	}

	return result
}
