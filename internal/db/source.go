package db

import (
	"context"
	"fmt"
	"log"
)

// SnapshotReader is the part of DB the content source needs
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
}

// SnapshotSource serves the latest stored snapshot as a content source
type SnapshotSource struct {
	Reader SnapshotReader
}

// Name implements content.Source
func (s SnapshotSource) Name() string { return "db" }

// Read implements content.Source
func (s SnapshotSource) Read(ctx context.Context) ([]byte, error) {
	snap, err := s.Reader.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read content from database: %w", err)
	}
	log.Printf("[content] using snapshot %s from %s (saved %s)", snap.ID, snap.Source, snap.CreatedAt.Format("2006-01-02 15:04:05"))
	return snap.Document, nil
}
