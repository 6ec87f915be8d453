package main

import (
	"fmt"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server that keeps one session per bearer token and exposes uploads, generation and export over REST.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := buildServer(cmd, opts, port)
			if err != nil {
				return err
			}
			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides the config file and PORT)")
	return cmd
}

// buildServer wires the store, generator, exporter and job fetcher into a server.
func buildServer(cmd *cobra.Command, opts *rootOptions, port int) (*server.Server, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	if port != 0 {
		cfg.Port = port
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, closeGen, err := newGenerator(ctx, cfg)
	if err != nil {
		closeStore()
		return nil, err
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Sessions:  session.NewManager(store),
		Generator: gen,
		Language:  cfg.Language,
		Exporter:  newExporter(cfg),
		FetchJob:  newJobFetcher(cfg),
		JWT:       jwtConfig,
		RateLimit: ratelimit.LoadConfig(),
		OnShutdown: func() {
			closeGen()
			closeStore()
		},
	})
	if err != nil {
		closeGen()
		closeStore()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, nil
}
