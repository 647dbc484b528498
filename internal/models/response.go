package models

import "time"

type BulkCSVResponse struct {
	Success              bool   `json:"success"`
	JobID                string `json:"jobId"`
	Status               string `json:"status"`
	TotalRows            int    `json:"totalRows"`
	EstimatedTimeMinutes int    `json:"estimatedTimeMinutes"`
}

type BatchResponse struct {
	ID             string                 `json:"batch_id"`
	Filename       string                 `json:"filename,omitempty"`
	Department     string                 `json:"department"`
	Status         string                 `json:"status"`
	TotalRows      int                    `json:"total_rows"`
	ProcessedRows  int                    `json:"processed_rows"`
	SuccessfulRows int                    `json:"successful_rows"`
	FailedRows     int                    `json:"failed_rows"`
	ErrorSummary   string                 `json:"error_summary,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type BatchListResponse struct {
	Batches []BatchSummary `json:"batches"`
}

type BatchSummary struct {
	ID            string    `json:"batch_id"`
	Filename      string    `json:"filename,omitempty"`
	Status        string    `json:"status"`
	TotalRows     int       `json:"total_rows"`
	ProcessedRows int       `json:"processed_rows"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RowJobResponse struct {
	RowNumber     int    `json:"row_number"`
	Status        string `json:"status"`
	TriggerPrompt string `json:"trigger_prompt"`
	GeneratedText string `json:"generated_text,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

type RowJobListResponse struct {
	BatchID string           `json:"batch_id"`
	Rows    []RowJobResponse `json:"rows"`
}

type ImageResponse struct {
	ID         string    `json:"image_id"`
	Prompt     string    `json:"prompt"`
	Model      string    `json:"model"`
	Source     string    `json:"source"`
	StorageURL string    `json:"storage_url"`
	CreatedAt  time.Time `json:"created_at"`
}

type ImageListResponse struct {
	Images []ImageResponse `json:"images"`
}

type JiraConnectResponse struct {
	OrgID  string `json:"orgId"`
	Active bool   `json:"active"`
}

type JiraSyncResponse struct {
	OrgID        string    `json:"orgId"`
	SyncedEvents int       `json:"syncedEvents"`
	SyncedAt     time.Time `json:"syncedAt"`
}

type CalendarEventResponse struct {
	ID          string     `json:"event_id"`
	Source      string     `json:"source"`
	ExternalKey string     `json:"external_key"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
}

type CalendarListResponse struct {
	Events []CalendarEventResponse `json:"events"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
