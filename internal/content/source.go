package content

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
)

//go:embed data/content.json
var defaultDocument []byte

// DefaultDocument returns the content document compiled into the binary.
func DefaultDocument() []byte {
	return defaultDocument
}

// Source supplies a raw content document
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// EmbeddedSource serves the document compiled into the binary
type EmbeddedSource struct{}

// Name implements Source
func (EmbeddedSource) Name() string { return "embedded" }

// Read implements Source
func (EmbeddedSource) Read(context.Context) ([]byte, error) {
	return defaultDocument, nil
}

// FileSource reads the document from a JSON file on disk
type FileSource struct {
	Path string
}

// Name implements Source
func (f FileSource) Name() string { return "file:" + f.Path }

// Read implements Source
func (f FileSource) Read(context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", f.Path),
			Cause:   err,
		}
	}
	return data, nil
}

// FromSource reads a document from src and loads it into a Store
func FromSource(ctx context.Context, src Source) (*Store, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}

	store, err := Load(data)
	if err != nil {
		return nil, err
	}

	log.Printf("[content] loaded %d projects, %d stacks from %s",
		len(store.doc.Projects), len(store.doc.Stacks), src.Name())
	return store, nil
}

// LoadFile loads a Store from a JSON file
func LoadFile(path string) (*Store, error) {
	return FromSource(context.Background(), FileSource{Path: path})
}

// Default loads the Store compiled into the binary
func Default() (*Store, error) {
	return FromSource(context.Background(), EmbeddedSource{})
}
