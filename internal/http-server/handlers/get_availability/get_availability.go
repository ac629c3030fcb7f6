package getavailability

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"little_lemon/internal/availability"
	resp "little_lemon/internal/lib/api/response"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/metrics"
	"little_lemon/internal/models"
	"little_lemon/internal/services/booking"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	Date  string            `json:"date"`
	Times []models.TimeSlot `json:"times"`
}

func New(log *slog.Logger, querier booking.SlotQuerier, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.get-availability.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		value := r.URL.Query().Get("date")

		date, err := availability.ParseDate(value, loc)
		if err != nil {
			if errors.Is(err, availability.ErrInvalidDate) {
				log.Warn("invalid date in query", slog.String("date", value))

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Date must be in YYYY-MM-DD format"))

				return
			}

			log.Error("failed to parse date", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Failed to load available times"))

			return
		}

		if querier == nil {
			log.Error("slot querier is not configured")

			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, resp.Error("Availability service is currently unavailable"))

			return
		}

		times, err := querier.AvailableTimes(date)
		if err != nil {
			log.Error("failed to query available times", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Failed to load available times"))

			return
		}

		if times == nil {
			times = []models.TimeSlot{}
		}

		metrics.IncSlotQuery()

		log.Debug("available times served", slog.String("date", value), slog.Int("count", len(times)))

		render.JSON(w, r, resp.OKWithData(Response{
			Date:  value,
			Times: times,
		}))
	}
}
