// Package pages serves the HTML side of the site: the home page, the
// reservation form and the confirmation view.
package pages

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"little_lemon/internal/availability"
	"little_lemon/internal/form"
	"little_lemon/internal/http-server/visit"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/lib/ticket"
	"little_lemon/internal/metrics"
	"little_lemon/internal/models"
	"little_lemon/internal/services/booking"

	"github.com/go-chi/chi/middleware"
)

//go:embed templates/*.html
var files embed.FS

var views = map[string]*template.Template{
	"home":         parse("home.html"),
	"reservations": parse("reservations.html"),
	"confirmed":    parse("confirmed.html"),
}

func parse(name string) *template.Template {
	return template.Must(template.ParseFS(files, "templates/base.html", "templates/"+name))
}

type special struct {
	Name        string
	Price       string
	Description string
}

var specials = []special{
	{
		Name:        "Greek Salad",
		Price:       "$12.99",
		Description: "The famous greek salad of crispy lettuce, peppers, olives and our Chicago style feta cheese, garnished with crunchy garlic and rosemary croutons.",
	},
	{
		Name:        "Bruschetta",
		Price:       "$5.99",
		Description: "Our Bruschetta is made from grilled bread that has been smeared with garlic and seasoned with salt and olive oil.",
	},
	{
		Name:        "Lemon Dessert",
		Price:       "$5.00",
		Description: "This comes straight from grandma's recipe book, every last ingredient has been sourced and is as authentic as can be imagined.",
	},
}

type Tickets interface {
	Issue(r models.Reservation) (string, string, error)
	Parse(tokenStr string) (*ticket.Claims, error)
}

type view struct {
	Title string

	Specials []special

	Today          string
	Draft          models.Draft
	Times          []models.TimeSlot
	TimeDisabled   bool
	SubmitDisabled bool
	NoTimes        string
	Errors         models.ValidationErrors
	Warning        string
	Message        string
	Occasions      []models.Occasion
	MinGuests      int
	MaxGuests      int

	Reservation *models.Reservation
	Reference   string
}

func Home(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		write(log, w, http.StatusOK, "home", view{
			Title:    "Home",
			Specials: specials,
		})
	}
}

// Reservations renders the form. A date in the query is treated as the
// user picking that date, other query values are carried over.
func Reservations(log *slog.Logger, deps visit.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pages.Reservations"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()
		v := deps.Open(log)

		date := q.Get("date")
		if date != "" {
			v.Form.SetDate(date)
		}
		if slot := models.TimeSlot(q.Get("time")); slot != "" && slices.Contains(v.Form.Times(), slot) {
			v.Form.SetTime(string(slot))
		}
		if guests := q.Get("guests"); guests != "" {
			v.Form.SetPartySizeInput(guests)
		}
		if occasion := q.Get("occasion"); occasion != "" {
			v.Form.SetOccasion(occasion)
		}

		data := formView(deps, v)
		if date == "" {
			data.Errors = nil
		}

		write(log, w, http.StatusOK, "reservations", data)
	}
}

func Submit(log *slog.Logger, deps visit.Deps, tickets Tickets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pages.Submit"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseForm(); err != nil {
			log.Error("failed to parse form", sl.Err(err))

			http.Error(w, "Failed to read the form", http.StatusBadRequest)

			return
		}

		v := deps.Open(log)

		if !v.Fill(r.PostForm.Get("date"), r.PostForm.Get("time"), r.PostForm.Get("guests"), r.PostForm.Get("occasion")) {
			log.Warn("party size out of range", slog.String("guests", r.PostForm.Get("guests")))

			metrics.IncReservation("invalid")

			data := formView(deps, v)
			data.Errors[form.FieldGuests] = form.MsgGuestsRange
			data.Warning = form.WarnInvalid

			write(log, w, http.StatusUnprocessableEntity, "reservations", data)

			return
		}

		if !v.Form.Submit(r.Context()) {
			log.Warn("reservation form rejected", slog.String("warning", v.Form.Warning()))

			metrics.IncReservation("invalid")

			write(log, w, http.StatusUnprocessableEntity, "reservations", formView(deps, v))

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
			write(log, w, visit.StatusFor(outcome.Message), "reservations", formView(deps, v))

			return
		}

		signed, ref, err := tickets.Issue(v.Form.Reservation())
		if err != nil {
			log.Error("failed to issue confirmation ticket", sl.Err(err))

			data := formView(deps, v)
			data.Message = booking.MsgUnexpected

			write(log, w, http.StatusInternalServerError, "reservations", data)

			return
		}

		log.Info("reservation accepted", slog.String("reference", ref))

		http.Redirect(w, r, v.Nav.Path+"?ticket="+url.QueryEscape(signed), http.StatusSeeOther)
	}
}

// Confirmed shows the reservation carried by a valid ticket and falls back
// to generic copy otherwise.
func Confirmed(log *slog.Logger, tickets Tickets) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pages.Confirmed"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		data := view{Title: "Booking Confirmed"}

		if raw := r.URL.Query().Get("ticket"); raw != "" {
			claims, err := tickets.Parse(raw)
			if err != nil {
				log.Warn("rejected confirmation ticket", sl.Err(err))
			} else {
				data.Reservation = &claims.Reservation
				data.Reference = claims.ID
			}
		}

		write(log, w, http.StatusOK, "confirmed", data)
	}
}

func formView(deps visit.Deps, v *visit.Visit) view {
	times := v.Form.Times()

	return view{
		Title:          "Reservations",
		Today:          today(deps.Booking),
		Draft:          v.Form.Draft(),
		Times:          times,
		TimeDisabled:   v.Form.TimeDisabled(),
		SubmitDisabled: v.Form.TimeDisabled() || v.Page.Pending(),
		NoTimes:        form.MsgNoTimes,
		Errors:         v.Form.Errors(),
		Warning:        v.Form.Warning(),
		Message:        v.Page.Outcome().Message,
		Occasions:      models.Occasions,
		MinGuests:      form.MinGuests,
		MaxGuests:      form.MaxGuests,
	}
}

func today(cfg booking.Config) string {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return now().In(loc).Format(availability.DateLayout)
}

func write(log *slog.Logger, w http.ResponseWriter, status int, name string, data view) {
	var buf bytes.Buffer

	if err := views[name].ExecuteTemplate(&buf, "base", data); err != nil {
		log.Error("failed to render page", slog.String("page", name), sl.Err(err))

		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
