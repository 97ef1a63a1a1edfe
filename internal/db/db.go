// Package db provides PostgreSQL storage for content document snapshots.
package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoSnapshot is returned when the snapshots table is empty
var ErrNoSnapshot = errors.New("no content snapshot stored")

const schema = `
CREATE TABLE IF NOT EXISTS content_snapshots (
	id         UUID PRIMARY KEY,
	checksum   TEXT NOT NULL UNIQUE,
	source     TEXT NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the snapshots table when it does not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create content_snapshots: %w", err)
	}
	return nil
}

// Checksum identifies a raw document; storing the same bytes twice keeps one row
func Checksum(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}

// SaveSnapshot stores a raw content document and returns the row.
// Saving a document that is already stored only refreshes its created_at.
func (db *DB) SaveSnapshot(ctx context.Context, source string, document []byte) (*Snapshot, error) {
	snap := Snapshot{
		ID:       uuid.New(),
		Checksum: Checksum(document),
		Source:   source,
		Document: document,
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO content_snapshots (id, checksum, source, document)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (checksum) DO UPDATE SET source = $3, created_at = NOW()
		 RETURNING id, created_at`,
		snap.ID, snap.Checksum, snap.Source, snap.Document,
	).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return &snap, nil
}

// LatestSnapshot returns the most recently saved snapshot, or ErrNoSnapshot
func (db *DB) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := db.pool.QueryRow(ctx,
		`SELECT id, checksum, source, document, created_at
		 FROM content_snapshots ORDER BY created_at DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.Checksum, &snap.Source, &snap.Document, &snap.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return &snap, nil
}

// ListSnapshots returns recent snapshots without their documents
func (db *DB) ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, checksum, source, created_at
		 FROM content_snapshots ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Checksum, &snap.Source, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
