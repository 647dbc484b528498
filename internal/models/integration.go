package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const IntegrationJira = "jira"

type IntegrationCredential struct {
	UserID       uuid.UUID
	OrgID        string
	Integration  string
	BaseURL      string
	Username     string
	APIToken     string
	Active       bool
	LastSyncedAt sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CalendarEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Source      string
	ExternalKey string
	Title       string
	DueDate     sql.NullTime
	Status      string
	Metadata    json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
