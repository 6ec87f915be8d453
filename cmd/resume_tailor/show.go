package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the knowledge base, job description and last resume of the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			snap := ws.session.Snapshot()
			out := cmd.OutOrStdout()

			if asJSON {
				jsonBytes, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal session: %w", err)
				}
				_, _ = fmt.Fprintln(out, string(jsonBytes))
				return nil
			}

			_, _ = fmt.Fprintf(out, "Session: %s\n", snap.ID)
			p := observability.NewPrinter(out)
			p.PrintProfile(snap.Profile, snap.Attachments)
			p.PrintJobDescription(snap.JobDescription)
			p.PrintGeneratedDocument(snap.Result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session state as JSON")
	return cmd
}
