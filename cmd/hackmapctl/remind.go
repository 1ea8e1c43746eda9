package main

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hackmap/internal/app"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send deadline reminders once and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container, _ zerolog.Logger) error {
			svc, err := app.NewServices(c, nil)
			if err != nil {
				return err
			}
			res, err := svc.Reminders.Run(ctx, time.Now())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		})
	},
}
