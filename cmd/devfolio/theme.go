package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/observability"
	"github.com/jonathan/devfolio/internal/viewer"
)

var (
	themeContent contentFlags
	themeImage   string
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show the viewer control theme chosen for each image",
	Long:  "Samples the centre of every project image in the assets directory and prints whether the viewer controls would use the light, dark or fallback background. With --image a single file is sampled.",
	RunE:  runTheme,
}

func init() {
	themeContent.register(themeCmd)
	themeCmd.Flags().StringVar(&themeImage, "image", "", "Sample a single image file")
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, _ []string) error {
	p := observability.NewPrinter(cmd.OutOrStdout())

	if themeImage != "" {
		f, err := os.Open(themeImage)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", themeImage, err)
		}
		defer f.Close()

		t := viewer.ThemeFor(f)
		p.PrintThemes([]observability.ThemeRow{{Project: "-", Path: themeImage, Theme: t}})
		return nil
	}

	cfg, err := loadSettings(themeContent)
	if err != nil {
		return err
	}
	store, err := openStore(commandContext(cmd), cfg)
	if err != nil {
		return err
	}

	p.PrintThemes(sampleThemes(store, os.DirFS(cfg.AssetsDir)))
	return nil
}

// sampleThemes samples every project image found in assets.
// Missing or remote images are reported with the fallback theme.
func sampleThemes(store *content.Store, assets fs.FS) []observability.ThemeRow {
	var rows []observability.ThemeRow
	for _, proj := range store.Projects() {
		for _, img := range proj.Images {
			row := observability.ThemeRow{Project: proj.Name, ImageID: img.ID, Path: img.Image, Theme: viewer.ThemeFallback}

			name := strings.TrimPrefix(path.Clean("/"+img.Image), "/")
			if f, err := assets.Open(name); err == nil {
				row.Theme = viewer.ThemeFor(f)
				f.Close()
			}
			rows = append(rows, row)
		}
	}
	return rows
}
