package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/spf13/cobra"
)

func newJobCmd(opts *rootOptions) *cobra.Command {
	var text, file, url string

	cmd := &cobra.Command{
		Use:   "job",
		Short: "Set the job description of the session",
		Long:  "Stores pasted text, the contents of a file (\"-\" for stdin) or the text of a job posting URL as the session's job description.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			raw := text
			switch {
			case file == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				raw = string(data)
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read job description file: %w", err)
				}
				raw = string(data)
			case url != "":
				if err := fetch.ValidateURL(url); err != nil {
					return err
				}
				raw, err = newJobFetcher(ws.cfg)(cmd.Context(), url)
				if err != nil {
					return fmt.Errorf("failed to fetch job posting: %w", err)
				}
			}

			clean, err := ws.session.SetJobDescription(cmd.Context(), raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Job description set (%d characters)\n", len([]rune(clean)))
			if ws.cfg.Verbose {
				observability.NewPrinter(out).PrintJobDescription(clean)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Job description text")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the job description from a file, or \"-\" for stdin")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Fetch the job description from a job posting URL")
	cmd.MarkFlagsMutuallyExclusive("text", "file", "url")
	cmd.MarkFlagsOneRequired("text", "file", "url")
	return cmd
}
