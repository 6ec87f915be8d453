package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/spf13/cobra"
)

// Export formats.
const (
	formatPDF  = "pdf"
	formatHTML = "html"
	formatJSON = "json"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the last generated resume as PDF, HTML or JSON",
		Long:  "Renders the stored resume. PDF export prints the HTML view to a single A4 page with headless Chrome.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ws, err := opts.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			doc := ws.session.Result()
			if doc == nil {
				return fmt.Errorf("no resume has been generated yet; run generate first")
			}

			format = strings.ToLower(format)
			if outFile == "" {
				outFile = strings.TrimSuffix(rendering.FileName(doc), ".pdf") + "." + format
			}

			var data []byte
			switch format {
			case formatJSON:
				data, err = json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal resume: %w", err)
				}
			case formatHTML, formatPDF:
				html, err := rendering.RenderHTML(doc, rendering.Options{Language: ws.cfg.Language})
				if err != nil {
					return err
				}
				data = []byte(html)
				if format == formatPDF {
					data, err = newExporter(ws.cfg).Export(ctx, html)
					if err != nil {
						return err
					}
				}
			default:
				return fmt.Errorf("unknown format %q (want pdf, html or json)", format)
			}

			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatPDF, "Output format: pdf, html or json")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output path (defaults to <full name>_CV.<format>)")
	return cmd
}
