package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/db"
)

var (
	seedFile        string
	seedDatabaseURL string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store a content document in PostgreSQL",
	Long:  "Validates a content document and saves it as the latest snapshot in the content_snapshots table, creating the table when needed. `serve --content db` then serves it.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Content JSON document (default: embedded document)")
	seedCmd.Flags().StringVar(&seedDatabaseURL, "database-url", "", "PostgreSQL URL (default $DATABASE_URL)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	databaseURL := seedDatabaseURL
	if databaseURL == "" {
		databaseURL = config.EnvString("DATABASE_URL", "")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --database-url is required")
	}

	source := "embedded"
	data := content.DefaultDocument()
	if seedFile != "" {
		raw, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", seedFile, err)
		}
		source, data = "file:"+seedFile, raw
	}

	// Refuse to store a document serve could not load
	if _, err := content.Load(data); err != nil {
		return fmt.Errorf("refusing to seed invalid content: %w", err)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	snap, err := database.SaveSnapshot(ctx, source, data)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored content snapshot %s\n", snap.ID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Checksum: %s\n", snap.Checksum)
	return nil
}
