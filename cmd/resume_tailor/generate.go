package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/resume-tailor/internal/generation"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "generate [file]...",
		Short: "Generate a tailored resume for the session",
		Long: "Sends the knowledge base, attachments and job description to the model once and stores the tailored resume. " +
			"Files given as arguments are loaded as one batch first, which is how PDF attachments are included.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := opts.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			// The generator is built first so a missing key leaves the session untouched.
			gen, closeGen, err := newGenerator(ctx, ws.cfg)
			if err != nil {
				return err
			}
			defer closeGen()

			if len(args) > 0 {
				if _, err := loadFiles(ctx, ws.session, args); err != nil {
					return err
				}
			}

			doc, err := ws.session.Generate(ctx, gen)
			if err != nil {
				var genErr *generation.Error
				if errors.As(err, &genErr) {
					log.Printf("[generate] %v", err)
					return errors.New(genErr.UserMessage())
				}
				return err
			}

			jsonBytes, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal resume: %w", err)
			}

			out := cmd.OutOrStdout()
			if outFile != "" {
				if err := os.WriteFile(outFile, jsonBytes, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				_, _ = fmt.Fprintf(out, "Resume written to %s\n", outFile)
			} else {
				_, _ = fmt.Fprintln(out, string(jsonBytes))
			}

			if ws.cfg.Verbose {
				observability.NewPrinter(out).PrintGeneratedDocument(doc)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the resume JSON to a file instead of stdout")
	return cmd
}
