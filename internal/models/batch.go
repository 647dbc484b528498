package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Batch status values. A batch is claimed from "queued" by exactly one
// orchestrator invocation and reaches a terminal state exactly once.
const (
	BatchStatusQueued     = "queued"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

// Row job status values.
const (
	RowStatusPending = "pending"
	RowStatusSuccess = "success"
	RowStatusFailed  = "failed"
)

type Batch struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Filename       string
	Department     string
	TotalRows      int
	ProcessedRows  int
	SuccessfulRows int
	FailedRows     int
	Status         string
	ErrorSummary   sql.NullString
	Metadata       json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RowJob struct {
	BatchID       uuid.UUID
	RowNumber     int
	Fields        json.RawMessage
	TriggerPrompt string
	Status        string
	GeneratedText sql.NullString
	ImagePath     sql.NullString
	ImageURL      sql.NullString
	ErrorMessage  sql.NullString
	RetryCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
