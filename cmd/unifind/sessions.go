package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/erazemk/unifind/internal/config"
	"github.com/erazemk/unifind/internal/db"
	"github.com/erazemk/unifind/internal/store"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and maintain stored SQLite sessions",
	}
	cmd.AddCommand(newSessionsPurgeCmd())
	return cmd
}

func newSessionsPurgeCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete sessions not used within --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()
			if err := db.Migrate(database); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			ctx := cmd.Context()
			cutoff := time.Now().Add(-olderThan)
			n, err := store.PurgeSessions(ctx, database, cutoff)
			if err != nil {
				return err
			}
			swept, err := store.SweepRevokedCookies(ctx, database, time.Now())
			if err != nil {
				return err
			}
			left, err := store.CountSessions(ctx, database)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Purged %s sessions last used before %s (%s).\n",
				humanize.Comma(n), cutoff.Format(time.RFC3339), humanize.Time(cutoff))
			fmt.Fprintf(out, "Dropped %s expired cookie revocations.\n", humanize.Comma(swept))
			fmt.Fprintf(out, "%s sessions remain.\n", humanize.Comma(int64(left)))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "purge sessions idle for longer than this")
	return cmd
}
