package router

import (
	"log/slog"
	"net/http"
	"time"

	booktable "little_lemon/internal/http-server/handlers/book_table"
	getavailability "little_lemon/internal/http-server/handlers/get_availability"
	"little_lemon/internal/http-server/handlers/pages"
	"little_lemon/internal/http-server/visit"
	resp "little_lemon/internal/lib/api/response"
	"little_lemon/internal/metrics"
	"little_lemon/internal/ratelimit"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Options struct {
	Visit   visit.Deps
	Tickets pages.Tickets
	// Limiter guards the POST routes; nil disables limiting.
	Limiter ratelimit.Limiter
}

func New(log *slog.Logger, opts Options) http.Handler {
	loc := opts.Visit.Booking.Location
	if loc == nil {
		loc = time.Local
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// * Pages
	r.Get("/", pages.Home(log))
	r.Get("/reservations", pages.Reservations(log, opts.Visit))
	r.Get("/booking-confirmed", pages.Confirmed(log, opts.Tickets))

	// * API
	r.Get("/api/availability", getavailability.New(log, opts.Visit.Querier, loc))

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(ratelimit.Middleware(log, opts.Limiter))
		}

		r.Post("/reservations", pages.Submit(log, opts.Visit, opts.Tickets))
		r.Post("/api/bookings", booktable.New(log, opts.Visit, opts.Tickets))
	})

	// * Service
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, resp.OK())
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
