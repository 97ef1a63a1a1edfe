package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/linkcheck"
	"github.com/jonathan/devfolio/internal/server/ratelimit"
	"github.com/jonathan/devfolio/internal/viewer"
)

// getBinaryPath returns the path to the devfolio binary for CLI tests
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "devfolio")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/devfolio ./cmd/devfolio'", binaryPath)
	}
	return binaryPath
}

func TestContentProblems_EmbeddedIsValid(t *testing.T) {
	assert.Empty(t, contentProblems(content.DefaultDocument()))
}

func TestContentProblems_SchemaErrorsOnePerLine(t *testing.T) {
	problems := contentProblems([]byte(`{"projects": [{"id": "one"}]}`))
	require.NotEmpty(t, problems)
	for _, p := range problems {
		assert.NotContains(t, p, "\n")
	}
}

func TestContentProblems_IntegrityError(t *testing.T) {
	doc := content.DefaultDocument()
	// Feature a project that does not exist
	broken := strings.Replace(string(doc), `"top_projects": [1, 2, 3]`, `"top_projects": [1, 2, 42]`, 1)
	require.NotEqual(t, string(doc), broken)

	problems := contentProblems([]byte(broken))
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "integrity error")
}

func TestLoadSettings_Precedence(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORTFOLIO_ASSETS_DIR", "")
	configPath, verbose = "", false

	cfg, err := loadSettings(contentFlags{})
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, config.SourceEmbedded, cfg.Content)
	assert.Equal(t, "assets", cfg.AssetsDir)

	docPath := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(docPath, content.DefaultDocument(), 0o644))

	cfg, err = loadSettings(contentFlags{path: docPath, assetsDir: "public"})
	require.NoError(t, err)
	assert.Equal(t, config.SourceFile, cfg.Content, "a content path implies the file source")
	assert.Equal(t, docPath, cfg.ContentPath)
	assert.Equal(t, "public", cfg.AssetsDir)
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "devfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 7070, "content": "db"}`), 0o644))

	configPath, verbose = path, false
	defer func() { configPath = "" }()

	_, err := loadSettings(contentFlags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")

	cfg, err := loadSettings(contentFlags{databaseURL: "postgres://localhost/devfolio"})
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, config.SourceDB, cfg.Content)
}

func TestLoadSettings_RejectsUnknownSource(t *testing.T) {
	configPath, verbose = "", false
	_, err := loadSettings(contentFlags{source: "s3"})
	require.Error(t, err)
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSampleThemes(t *testing.T) {
	store, err := content.Default()
	require.NoError(t, err)

	rows := sampleThemes(store, fstest.MapFS{
		"projects/spreeloop/home.png": {Data: pngBytes(t, color.White)},
		"projects/spreeloop/menu.png": {Data: pngBytes(t, color.Black)},
	})

	total := 0
	for _, p := range store.Projects() {
		total += len(p.Images)
	}
	require.Len(t, rows, total)
	assert.Equal(t, viewer.ThemeLight, rows[0].Theme)
	assert.Equal(t, viewer.ThemeDark, rows[1].Theme)
	assert.Equal(t, viewer.ThemeFallback, rows[2].Theme)
	assert.Equal(t, "Spreeloop", rows[0].Project)
}

func TestBuildServer_EmbeddedContentCrawls(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	configPath, verbose = "", false

	cfg, err := loadSettings(contentFlags{assetsDir: t.TempDir()})
	require.NoError(t, err)

	srv, store, err := buildServer(commandContext(rootCmd), cfg, &ratelimit.Config{Enabled: false})
	require.NoError(t, err)
	assert.Len(t, store.Projects(), 5)

	report, err := linkcheck.Check(commandContext(rootCmd), srv.Handler(), inProcessBase, linkcheck.Options{MaxDepth: 1})
	require.NoError(t, err)

	// Every page link resolves; only image downloads miss their files in an empty assets dir
	for _, res := range report.Broken() {
		assert.Contains(t, res.URL, "/download", "unexpected broken link %s", res.URL)
	}
}

func TestRootCommand_FlagsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "validate", "inspect", "check-links", "seed", "snapshot", "theme"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	flags := checkLinksCmd.Flags()
	require.NotNil(t, flags.Lookup("assets"))
	require.NotNil(t, flags.Lookup("check-assets"))
	assert.Equal(t, "string", flags.Lookup("assets").Value.Type())
	assert.Equal(t, "bool", flags.Lookup("check-assets").Value.Type())
}

func TestCheckLinksCommand_InProcess(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	configPath, verbose = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"check-links", "--assets", filepath.Join("..", "..", "assets"), "--depth", "1"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute(), out.String())
	assert.Contains(t, out.String(), "LINKS OK")
	assert.False(t, checkAssets)
}

func TestValidateCommand_InvalidFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	path := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"projects": "nope"}`), 0o644))

	cmd := exec.Command(binaryPath, "validate", "--file", path)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "CONTENT PROBLEMS")
}

func TestValidateCommand_Embedded(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "validate").CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "CONTENT VALID")
}

func TestSeedCommand_RequiresDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "seed")
	cmd.Env = []string{"PATH=" + os.Getenv("PATH")}
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL")
}
