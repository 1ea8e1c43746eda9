package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hackmap/internal/app"
)

var seedOnly []string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample organizer, participants and hackathons",
	Long: "Insert the sample organizer, participants and hackathons. Every sample account uses the " +
		"password password123. Rows that already exist are left untouched.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container, log zerolog.Logger) error {
			if err := app.Seed(ctx, c, time.Now(), seedOnly...); err != nil {
				return err
			}
			log.Info().Msg("database seeded")
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().StringSliceVar(&seedOnly, "only", nil, "run only the named seeders (users, hackathons)")
}
