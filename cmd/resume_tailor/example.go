package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/upload"
	"github.com/spf13/cobra"
)

func newExampleCmd(opts *rootOptions) *cobra.Command {
	var (
		outFile string
		load    bool
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print, save or load the example knowledge base",
		Long: "Prints the example knowledge base JSON. With --out it is saved to a file; " +
			"with --load it is merged into the session like an uploaded profile.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := prompts.ExampleProfile()
			out := cmd.OutOrStdout()

			if !load {
				if outFile == "" {
					_, _ = out.Write(data)
					return nil
				}
				if err := os.WriteFile(outFile, data, 0o644); err != nil {
					return fmt.Errorf("failed to write example: %w", err)
				}
				_, _ = fmt.Fprintf(out, "Example knowledge base written to %s\n", outFile)
				return nil
			}

			ws, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			file := upload.FromBytes(prompts.ExampleProfileFile, upload.MediaTypeJSON, data)
			if _, err := ws.session.LoadBatch(cmd.Context(), []upload.File{file}); err != nil {
				return fmt.Errorf("failed to load example: %w", err)
			}
			_, _ = fmt.Fprintln(out, "Example knowledge base loaded. Set a job description and run generate.")
			if ws.cfg.Verbose {
				snap := ws.session.Snapshot()
				observability.NewPrinter(out).PrintProfile(snap.Profile, snap.Attachments)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Save the example JSON to a file")
	cmd.Flags().BoolVar(&load, "load", false, "Merge the example into the session knowledge base")
	cmd.MarkFlagsMutuallyExclusive("out", "load")
	return cmd
}
