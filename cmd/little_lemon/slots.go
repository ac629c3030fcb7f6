package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"little_lemon/internal/availability"

	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the available times for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()

			if date != "" {
				parsed, err := availability.ParseDate(date, time.Local)
				if err != nil {
					return err
				}
				day = parsed
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

			times, err := availability.New(log).AvailableTimes(day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range times {
				fmt.Fprintln(out, t)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date in YYYY-MM-DD format (default today)")

	return cmd
}
