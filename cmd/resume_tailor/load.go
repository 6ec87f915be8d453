package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/jonathan/resume-tailor/internal/upload"
	"github.com/spf13/cobra"
)

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>...",
		Short: "Load profile JSON fragments and resume PDFs into the session",
		Long: "Reads all files as one batch. JSON fragments are validated and merged into the knowledge base; " +
			"PDFs become attachments for this process only. If any file is rejected, nothing is loaded.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			batch, err := loadFiles(cmd.Context(), ws.session, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range batch.Files {
				_, _ = fmt.Fprintf(out, "Loaded %s (%s)\n", f.Name, f.Type)
			}
			if len(batch.Attachments) > 0 {
				_, _ = fmt.Fprintln(out, "PDF attachments are not saved between runs; pass them to generate to include them.")
			}
			if ws.cfg.Verbose {
				snap := ws.session.Snapshot()
				observability.NewPrinter(out).PrintProfile(snap.Profile, snap.Attachments)
			}
			return nil
		},
	}
}

// loadFiles reads paths as one upload batch into sess.
func loadFiles(ctx context.Context, sess *session.Session, paths []string) (*upload.Batch, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		f, err := upload.FromPath(p)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", p, err)
		}
		files = append(files, f)
	}

	batch, err := sess.LoadBatch(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	return batch, nil
}
