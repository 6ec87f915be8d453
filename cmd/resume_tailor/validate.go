package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	internalschemas "github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/validation"
	"github.com/jonathan/resume-tailor/schemas"
	"github.com/spf13/cobra"
)

// Document kinds accepted by validate.
const (
	kindProfile = "profile"
	kindResume  = "resume"
)

// errValidationFailed is returned after the violations have been printed.
var errValidationFailed = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a profile fragment, a generated resume or a PDF",
		Long: "Validates a JSON profile fragment against the profile rules, a generated resume (--kind resume) " +
			"against the response schema, or checks that a PDF is readable.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("file not found: %s", path)
				}
				return fmt.Errorf("failed to read file: %w", err)
			}

			out := cmd.OutOrStdout()
			if strings.EqualFold(filepath.Ext(path), ".pdf") {
				pages, err := validation.CountPDFPages(data)
				if err != nil {
					_, _ = fmt.Fprintf(out, "Validation failed: %v\n", err)
					return errValidationFailed
				}
				_, _ = fmt.Fprintf(out, "Validation passed: %s (%d page(s))\n", path, pages)
				return nil
			}

			switch kind {
			case kindProfile:
				if _, err := validation.ValidateProfile(data); err != nil {
					var ve *validation.ValidationError
					if !errors.As(err, &ve) {
						return err
					}
					printViolations(out, fieldPairs(ve.Errors))
					return errValidationFailed
				}
			case kindResume:
				v, err := internalschemas.Compile(schemas.GeneratedDocument, schemas.MustRead(schemas.GeneratedDocument))
				if err != nil {
					return err
				}
				if err := v.Validate(data); err != nil {
					var ve *internalschemas.ValidationError
					if !errors.As(err, &ve) {
						_, _ = fmt.Fprintf(out, "Validation failed: %v\n", err)
						return errValidationFailed
					}
					pairs := make([][2]string, 0, len(ve.Errors))
					for _, fe := range ve.Errors {
						pairs = append(pairs, [2]string{fe.Field, fe.Message})
					}
					printViolations(out, pairs)
					return errValidationFailed
				}
			default:
				return fmt.Errorf("unknown kind %q (want profile or resume)", kind)
			}

			_, _ = fmt.Fprintf(out, "Validation passed: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", kindProfile, "Document kind for JSON files: profile or resume")
	return cmd
}

func fieldPairs(errs []validation.FieldError) [][2]string {
	pairs := make([][2]string, 0, len(errs))
	for _, fe := range errs {
		pairs = append(pairs, [2]string{fe.Field, fe.Message})
	}
	return pairs
}

//nolint:errcheck // writing to stdout
func printViolations(out io.Writer, violations [][2]string) {
	fmt.Fprintln(out, "Validation failed:")
	for i, v := range violations {
		fmt.Fprintf(out, "  %d. %s: %s\n", i+1, v[0], v[1])
	}
}
