//go:build integration
// +build integration

package snapshot

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/devfolio/internal/config"
	"github.com/jonathan/devfolio/internal/content"
	"github.com/jonathan/devfolio/internal/server"
	"github.com/jonathan/devfolio/internal/server/ratelimit"
)

func requireChrome(t *testing.T) {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome/Chromium found, skipping browser test")
}

func TestServeAndCapture_Integration(t *testing.T) {
	requireChrome(t)

	store, err := content.Default()
	require.NoError(t, err)

	srv, err := server.New(server.Options{
		Config:    config.Defaults(),
		Profile:   config.Profile{NameLong: "Ada Example", NameShort: "Ada"},
		Store:     store,
		Assets:    fstest.MapFS{},
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := DefaultOptions()
	opts.Settle = 200 * time.Millisecond
	shots, err := ServeAndCapture(ctx, srv, []string{"/", "/project/0"}, t.TempDir(), opts)
	require.NoError(t, err)
	require.Len(t, shots, 2)

	for _, shot := range shots {
		info, err := os.Stat(shot.Path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
