package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/observability"
	"github.com/jonathan/devfolio/internal/schemas"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a content document",
	Long:  "Checks a content JSON document against the content schema, the record rules and the store invariants (unique ids, featured projects that exist). Without --file the embedded document is checked.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to content JSON document")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	source := "embedded"
	data := content.DefaultDocument()
	if validateFile != "" {
		source = validateFile
		raw, err := os.ReadFile(validateFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", validateFile, err)
		}
		data = raw
	}

	problems := contentProblems(data)
	observability.NewPrinter(cmd.OutOrStdout()).PrintValidation(source, problems)

	if len(problems) > 0 {
		return fmt.Errorf("content document %s has %d problems", source, len(problems))
	}
	return nil
}

// contentProblems lists every reason data cannot be loaded, one line each
func contentProblems(data []byte) []string {
	_, err := content.Load(data)
	if err == nil {
		return nil
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		problems := make([]string, len(schemaErr.Errors))
		for i, fe := range schemaErr.Errors {
			problems[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
		}
		return problems
	}
	return []string{err.Error()}
}
