package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"little_lemon/internal/availability"
	"little_lemon/internal/http-server/router"
	"little_lemon/internal/http-server/visit"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/lib/ticket"
	"little_lemon/internal/metrics"
	"little_lemon/internal/rabbitmq"
	"little_lemon/internal/ratelimit"
	"little_lemon/internal/services/booking"
	"little_lemon/internal/storage/redis"
	"little_lemon/internal/submitter"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web site and the reservation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			log := setupLogger(cfg.Env)

			log.Info("starting little lemon", slog.String("env", cfg.Env))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// * Submitter
			var sub booking.Submitter = submitter.New(log)

			if cfg.RabbitMQ.URL != "" {
				rabbitMQClient, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
				if err != nil {
					return fmt.Errorf("init rabbitmq: %w", err)
				}
				defer rabbitMQClient.Close()

				sub = submitter.WithNotifications(submitter.New(log), rabbitMQClient, log)
			} else {
				log.Warn("rabbitmq url is empty, booking notifications are disabled")
			}

			// * Rate limiting
			var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.RateLimit.Requests, cfg.RateLimit.Window)

			if cfg.Redis.Address != "" {
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				redisRepo, err := redis.New(pingCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
				cancel()
				if err != nil {
					return fmt.Errorf("connect to redis: %w", err)
				}
				defer redisRepo.Close()

				limiter = ratelimit.NewRedis(redisRepo, cfg.RateLimit.Requests, cfg.RateLimit.Window)
			}

			metrics.Register()

			// * Routing
			handler := router.New(log, router.Options{
				Visit: visit.Deps{
					Querier:   availability.New(log),
					Submitter: sub,
					Booking: booking.Config{
						SubmitDelay: cfg.Booking.SubmitDelay,
						Location:    cfg.BookingLocation(),
					},
				},
				Tickets: ticket.New(cfg.AppSecret, cfg.Booking.TicketTTL),
				Limiter: limiter,
			})

			srv := &http.Server{
				Addr:         cfg.HTTPServer.Address,
				Handler:      handler,
				ReadTimeout:  cfg.HTTPServer.Timeout,
				WriteTimeout: cfg.HTTPServer.Timeout + cfg.Booking.SubmitDelay,
				IdleTimeout:  cfg.HTTPServer.IdleTimeout,
			}

			go func() {
				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Error("graceful shutdown failed", sl.Err(err))
				}
			}()

			log.Info("HTTP server starting", slog.String("addr", cfg.HTTPServer.Address))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}

			log.Info("server stopped")

			return nil
		},
	}
}
