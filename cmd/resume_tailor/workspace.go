package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/generation"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/session"
	"github.com/jonathan/resume-tailor/internal/storage"
)

// loadConfig resolves the config file, the environment and the --verbose flag.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// openStore connects the persistence backend named by the config. The
// returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		rs, err := storage.NewRedisStore(ctx, cfg.Store.RedisURL, cfg.Store.TTLDuration())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil

	case config.BackendPostgres:
		database, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres store: %w", err)
		}
		return database, database.Close, nil

	default:
		fs, err := storage.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

// workspace is the local session a CLI command operates on.
type workspace struct {
	cfg     *config.Config
	session *session.Session
	close   func()
}

func (o *rootOptions) openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sess, err := session.Open(ctx, o.sessionID, store)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("failed to open session %q: %w", o.sessionID, err)
	}
	return &workspace{cfg: cfg, session: sess, close: closeStore}, nil
}

// newGenerator builds the model-backed generator. Tests replace it.
var newGenerator = func(ctx context.Context, cfg *config.Config) (session.Generator, func(), error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	tier, err := llm.ParseTier(cfg.ModelTier)
	if err != nil {
		return nil, nil, err
	}
	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(tier, cfg.Model)
	}
	llmConfig.Temperature = cfg.Temperature

	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	gen, err := generation.New(client, generation.Options{Language: cfg.Language, Tier: tier})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return gen, func() { _ = client.Close() }, nil
}

// newExporter returns the PDF exporter. Tests replace it.
var newExporter = func(cfg *config.Config) server.Exporter {
	exporter := rendering.NewPDFExporter(cfg.ChromePath)
	exporter.Verbose = cfg.Verbose
	return exporter
}

// newJobFetcher returns the job posting downloader. Tests replace it.
var newJobFetcher = func(cfg *config.Config) server.JobFetcher {
	opts := fetch.JobOptions{HTTP: fetch.DefaultOptions(), Verbose: cfg.Verbose}
	if cfg.UseBrowser {
		opts.Render = fetch.ChromeRenderer(fetch.BrowserOptions{ExecPath: cfg.ChromePath, Verbose: cfg.Verbose})
	}
	return func(ctx context.Context, url string) (string, error) {
		return fetch.JobDescription(ctx, url, opts)
	}
}
