package db

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one stored version of the content document
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Checksum  string    `json:"checksum"`
	Source    string    `json:"source"`
	Document  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
