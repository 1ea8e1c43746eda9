package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hackmap/internal/app"
	"hackmap/internal/database/migration"
	"hackmap/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container, log zerolog.Logger) error {
			n, err := app.Migrate(ctx, c)
			if err != nil {
				return err
			}
			log.Info().Int("applied", n).Msg("migrations complete")
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they have been applied",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container, _ zerolog.Logger) error {
			r := migration.Runner{FS: migrations.FS, Logger: c.Logger}
			statuses, err := r.Status(ctx, c.DB.SQLDB())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
			for _, s := range statuses {
				at := "pending"
				if s.Applied && s.AppliedAt != nil {
					at = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Name, at)
			}
			return w.Flush()
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
}
