//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/devfolio/internal/content"
)

// setupTestDB connects to TEST_DATABASE_URL and prepares the schema
func setupTestDB(t *testing.T) *DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func TestSnapshotRoundTrip_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	// idempotent
	require.NoError(t, db.EnsureSchema(ctx))

	first, err := db.SaveSnapshot(ctx, "embedded", content.DefaultDocument())
	require.NoError(t, err)
	assert.Equal(t, Checksum(content.DefaultDocument()), first.Checksum)

	again, err := db.SaveSnapshot(ctx, "file:content.json", content.DefaultDocument())
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same document keeps one row")

	latest, err := db.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, latest.ID)
	assert.Equal(t, "file:content.json", latest.Source)

	store, err := content.FromSource(ctx, SnapshotSource{Reader: db})
	require.NoError(t, err)
	assert.Len(t, store.Projects(), 5)

	snaps, err := db.ListSnapshots(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, snaps)
	assert.Nil(t, snaps[0].Document)
}
