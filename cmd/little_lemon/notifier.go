package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	emailsender "little_lemon/internal/email_sender"
	"little_lemon/internal/lib/logger/sl"
	"little_lemon/internal/models"
	"little_lemon/internal/rabbitmq"

	"github.com/spf13/cobra"
)

type sender interface {
	Send(to, subject, body string) error
}

func newNotifierCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Email the administrator about every new reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			log := setupLogger(cfg.Env)

			if cfg.RabbitMQ.URL == "" {
				return errors.New("rabbitmq url is not configured")
			}
			if cfg.AdministratorEmail == "" {
				return errors.New("administrator email is not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("starting notification worker", slog.String("env", cfg.Env))

			r, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
			if err != nil {
				return fmt.Errorf("init rabbitmq: %w", err)
			}
			defer r.Close()

			m := &emailsender.Mailer{
				Host:     cfg.Email.Host,
				Port:     cfg.Email.Port,
				Username: cfg.Email.Username,
				Password: cfg.Email.Password,
			}

			if err := r.StartReading(ctx, notify(log, m, cfg.AdministratorEmail)); err != nil {
				return err
			}

			log.Info("notification worker stopped")

			return nil
		},
	}
}

// notify returns the queue handler. Malformed messages are logged and
// dropped, delivery failures are returned so the message is requeued.
func notify(log *slog.Logger, m sender, to string) func([]byte) error {
	return func(msg []byte) error {
		var n models.Notification
		if err := json.Unmarshal(msg, &n); err != nil {
			log.Error("failed to unmarshal message", sl.Err(err))
			return nil
		}

		subject, text := emailsender.CreateMessage(n)

		if err := m.Send(to, subject, text); err != nil {
			log.Error("failed to send message", sl.Err(err), slog.String("reference", n.Reference))
			return err
		}

		log.Info("message sent successfully", slog.String("reference", n.Reference))

		return nil
	}
}
