package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/db"
)

// contentFlags are shared by every command that reads the content document
type contentFlags struct {
	source      string
	path        string
	databaseURL string
	assetsDir   string
}

func (f *contentFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.source, "content", "", "Content source: embedded, file or db")
	flags.StringVar(&f.path, "content-path", "", "Content JSON document when --content=file")
	flags.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL URL when --content=db (default $DATABASE_URL)")
	flags.StringVar(&f.assetsDir, "assets", "", "Directory served under /assets/ (default $PORTFOLIO_ASSETS_DIR or ./assets)")
}

// loadSettings resolves the configuration: file, then environment, then flags, then defaults
func loadSettings(flags contentFlags) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	cfg.FromEnv()

	if flags.source != "" {
		cfg.Content = flags.source
	} else if flags.path != "" && cfg.Content == "" {
		cfg.Content = config.SourceFile
	}
	if flags.path != "" {
		cfg.ContentPath = flags.path
	}
	if flags.databaseURL != "" {
		cfg.DatabaseURL = flags.databaseURL
	}
	if flags.assetsDir != "" {
		cfg.AssetsDir = flags.assetsDir
	}
	if verbose {
		cfg.Verbose = true
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// contentSource picks the content.Source for cfg. The returned closer releases
// the database pool when the source is db.
func contentSource(ctx context.Context, cfg config.Config) (content.Source, func(), error) {
	switch cfg.Content {
	case config.SourceFile:
		return content.FileSource{Path: cfg.ContentPath}, func() {}, nil
	case config.SourceDB:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		database, err := db.Connect(connectCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.SnapshotSource{Reader: database}, database.Close, nil
	default:
		return content.EmbeddedSource{}, func() {}, nil
	}
}

// openStore loads the content store described by cfg
func openStore(ctx context.Context, cfg config.Config) (*content.Store, error) {
	src, closeSource, err := contentSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open content source: %w", err)
	}
	defer closeSource()

	store, err := content.FromSource(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load content from %s: %w", src.Name(), err)
	}
	return store, nil
}

// commandContext returns the command's context, or Background when run outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
