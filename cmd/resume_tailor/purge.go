package main

import (
	"fmt"
	"time"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/spf13/cobra"
)

func newPurgeCmd(opts *rootOptions) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete sessions idle for longer than a duration from the postgres store",
		Long:  "Redis entries expire on their own and file sessions are removed with reset; this command serves the postgres backend.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != config.BackendPostgres {
				return fmt.Errorf("purge needs the postgres store, configured backend is %q", cfg.Store.Backend)
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			database, err := db.Connect(cmd.Context(), cfg.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			n, err := database.PurgeIdle(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Purged %d idle session entries\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Remove sessions not updated within this duration")
	return cmd
}
