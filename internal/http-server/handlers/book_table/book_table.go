package booktable

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"little_lemon/internal/form"
	"little_lemon/internal/http-server/visit"
	resp "little_lemon/internal/lib/api/response"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/metrics"
	"little_lemon/internal/models"
	"little_lemon/internal/services/booking"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

type Request struct {
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Guests   int    `json:"guests" validate:"required"`
	Occasion string `json:"occasion" validate:"required"`
}

type Confirmation struct {
	Redirect  string `json:"redirect"`
	Ticket    string `json:"ticket"`
	Reference string `json:"reference"`
}

type TicketIssuer interface {
	Issue(r models.Reservation) (string, string, error)
}

func New(log *slog.Logger, deps visit.Deps, issuer TicketIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.book-table.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		// Валидация
		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Warn("invalid request", sl.Err(err))

			metrics.IncReservation("invalid")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		v := deps.Open(log)

		if !v.Fill(req.Date, req.Time, strconv.Itoa(req.Guests), req.Occasion) {
			log.Warn("party size out of range", slog.Int("guests", req.Guests))

			metrics.IncReservation("invalid")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ErrorWithData(form.WarnInvalid, models.ValidationErrors{
				form.FieldGuests: form.MsgGuestsRange,
			}))

			return
		}

		if !v.Form.Submit(r.Context()) {
			log.Warn("reservation form rejected", slog.String("warning", v.Form.Warning()))

			metrics.IncReservation("invalid")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ErrorWithData(v.Form.Warning(), v.Form.Errors()))

			return
		}

		outcome := v.Page.Outcome()
		metrics.IncReservation(string(outcome.Status))

		switch outcome.Status {
		case models.StatusSuccess:
		case models.StatusPending:
			log.Warn("client went away before the reservation was submitted")

			return
		default:
			render.Status(r, visit.StatusFor(outcome.Message))
			render.JSON(w, r, resp.Error(outcome.Message))

			return
		}

		reservation := v.Form.Reservation()

		signed, ref, err := issuer.Issue(reservation)
		if err != nil {
			log.Error("failed to issue confirmation ticket", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(booking.MsgUnexpected))

			return
		}

		log.Info("reservation accepted", slog.String("reference", ref))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, resp.OKWithData(Confirmation{
			Redirect:  v.Nav.Path + "?ticket=" + url.QueryEscape(signed),
			Ticket:    signed,
			Reference: ref,
		}))
	}
}
