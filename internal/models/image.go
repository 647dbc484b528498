package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Generation source tags recorded on generated images.
const (
	SourceManual = "manual"
	SourceBatch  = "batch"
	SourceEditor = "editor"
)

// GeneratedImage rows are immutable. Edits insert a new row rather than
// mutating the original.
type GeneratedImage struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Prompt      string
	Model       string
	Source      string
	StoragePath string
	StorageURL  string
	Metadata    json.RawMessage
	CreatedAt   time.Time
}
