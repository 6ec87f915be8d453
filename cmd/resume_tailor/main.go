// Package main provides the resume_tailor CLI and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// defaultSessionID names the local session used when --session is not given.
const defaultSessionID = "default"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	sessionID  string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "resume_tailor",
		Short: "Resume Tailor CLI and HTTP API server",
		Long: "Resume Tailor merges career profile fragments and prior resumes into one knowledge base " +
			"and asks a generative model for a resume tailored to a job description.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&opts.sessionID, "session", defaultSessionID, "Name of the local session")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed summaries")

	cmd.AddCommand(
		newServeCmd(opts),
		newLoadCmd(opts),
		newExampleCmd(opts),
		newJobCmd(opts),
		newGenerateCmd(opts),
		newExportCmd(opts),
		newShowCmd(opts),
		newResetCmd(opts),
		newValidateCmd(),
		newMergeCmd(opts),
		newPurgeCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
