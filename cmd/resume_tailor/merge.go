package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-tailor/internal/merge"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/upload"
	"github.com/spf13/cobra"
)

func newMergeCmd(opts *rootOptions) *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "merge <file.json>...",
		Short: "Merge profile fragments into one profile without touching the session",
		Long:  "Validates the fragments as one batch and merges them: lists are united without duplicates, later scalars win.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]upload.File, 0, len(args))
			for _, p := range args {
				f, err := upload.FromPath(p)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", p, err)
				}
				files = append(files, f)
			}

			batch, err := upload.Read(cmd.Context(), files)
			if err != nil {
				return err
			}
			if len(batch.Attachments) > 0 {
				return fmt.Errorf("merge accepts JSON profile fragments only")
			}

			merged := merge.Batch(batch.Fragments...)
			jsonBytes, err := json.MarshalIndent(merged, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal merged profile: %w", err)
			}

			out := cmd.OutOrStdout()
			if outFile != "" {
				if err := os.WriteFile(outFile, jsonBytes, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				_, _ = fmt.Fprintf(out, "Merged %d fragment(s) into %s\n", len(batch.Fragments), outFile)
			} else {
				_, _ = fmt.Fprintln(out, string(jsonBytes))
			}

			if opts.verbose {
				observability.NewPrinter(out).PrintProfile(merged, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the merged profile to a file instead of stdout")
	return cmd
}
