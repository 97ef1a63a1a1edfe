package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/server"
	"github.com/jonathan/devfolio/internal/server/ratelimit"
)

var (
	servePort    int
	serveContent contentFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	Long:  `Start an HTTP server that renders the portfolio pages, serves /assets/ and exposes the read-only JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default $PORT or 8080)")
	serveContent.register(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(serveContent)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	srv, _, err := buildServer(commandContext(cmd), cfg, nil)
	if err != nil {
		return err
	}
	return srv.Start()
}

// buildServer loads content for cfg and wires a server around it.
// A nil rl makes rate limiting follow the RATE_LIMIT_* environment.
func buildServer(ctx context.Context, cfg config.Config, rl *ratelimit.Config) (*server.Server, *content.Store, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	srv, err := server.New(server.Options{
		Config:    cfg,
		Profile:   config.LoadProfile(),
		Store:     store,
		RateLimit: rl,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, store, nil
}
