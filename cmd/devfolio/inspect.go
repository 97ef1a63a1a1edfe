package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/observability"
)

var (
	inspectContent contentFlags
	inspectJSON    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize the loaded content",
	Long:  "Loads the content document from the configured source and prints counts, featured projects and the tech stack by category.",
	RunE:  runInspect,
}

func init() {
	inspectContent.register(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the full document as JSON instead of a summary")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(inspectContent)
	if err != nil {
		return err
	}

	store, err := openStore(commandContext(cmd), cfg)
	if err != nil {
		return err
	}

	if inspectJSON {
		jsonBytes, err := json.MarshalIndent(store.Document(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal content: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return nil
	}

	p := observability.NewPrinter(cmd.OutOrStdout())
	p.PrintContentSummary(store)
	p.PrintStacks(store.StacksByCategory())
	return nil
}
