package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the session and its saved state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			ws.session.Reset(cmd.Context())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Session %s reset\n", ws.session.ID())
			return nil
		},
	}
}
