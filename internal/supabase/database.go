package supabase

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"adstudio-backend/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

// --- batches ---

func (d *DatabaseClient) CreateBatch(batchID, userID uuid.UUID, filename, department string, totalRows int, metadata map[string]interface{}) (*models.Batch, error) {
	metadataJSON, _ := json.Marshal(metadata)

	var batch models.Batch
	err := d.db.QueryRow(`
		INSERT INTO batches (id, user_id, filename, department, total_rows, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, filename, department, total_rows, processed_rows, successful_rows,
		          failed_rows, status, error_summary, metadata, created_at, updated_at
	`, batchID, userID, filename, department, totalRows, models.BatchStatusQueued, metadataJSON).Scan(
		&batch.ID, &batch.UserID, &batch.Filename, &batch.Department, &batch.TotalRows,
		&batch.ProcessedRows, &batch.SuccessfulRows, &batch.FailedRows, &batch.Status,
		&batch.ErrorSummary, &batch.Metadata, &batch.CreatedAt, &batch.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	return &batch, nil
}

func (d *DatabaseClient) GetBatch(batchID, userID uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	err := d.db.QueryRow(`
		SELECT id, user_id, filename, department, total_rows, processed_rows, successful_rows,
		       failed_rows, status, error_summary, metadata, created_at, updated_at
		FROM batches
		WHERE id = $1 AND user_id = $2
	`, batchID, userID).Scan(
		&batch.ID, &batch.UserID, &batch.Filename, &batch.Department, &batch.TotalRows,
		&batch.ProcessedRows, &batch.SuccessfulRows, &batch.FailedRows, &batch.Status,
		&batch.ErrorSummary, &batch.Metadata, &batch.CreatedAt, &batch.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	return &batch, nil
}

func (d *DatabaseClient) ListBatches(userID uuid.UUID) ([]models.Batch, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, filename, department, total_rows, processed_rows, successful_rows,
		       failed_rows, status, error_summary, metadata, created_at, updated_at
		FROM batches
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	var batches []models.Batch
	for rows.Next() {
		var batch models.Batch
		err := rows.Scan(
			&batch.ID, &batch.UserID, &batch.Filename, &batch.Department, &batch.TotalRows,
			&batch.ProcessedRows, &batch.SuccessfulRows, &batch.FailedRows, &batch.Status,
			&batch.ErrorSummary, &batch.Metadata, &batch.CreatedAt, &batch.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

// ClaimBatch atomically moves a queued batch into processing and zeroes its
// counters. Exactly one caller wins; a second claim on the same id reports
// false, which keeps duplicate orchestrator invocations from double-counting.
func (d *DatabaseClient) ClaimBatch(batchID uuid.UUID) (bool, error) {
	result, err := d.db.Exec(`
		UPDATE batches
		SET status = $1, processed_rows = 0, successful_rows = 0, failed_rows = 0,
		    error_summary = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.BatchStatusProcessing, batchID, models.BatchStatusQueued)
	if err != nil {
		return false, fmt.Errorf("failed to claim batch: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}

	return affected == 1, nil
}

func (d *DatabaseClient) UpdateBatchProgress(batchID uuid.UUID, processed, successful, failed int) error {
	_, err := d.db.Exec(`
		UPDATE batches
		SET processed_rows = $1, successful_rows = $2, failed_rows = $3, updated_at = NOW()
		WHERE id = $4
	`, processed, successful, failed, batchID)
	if err != nil {
		return fmt.Errorf("failed to update batch progress: %w", err)
	}
	return nil
}

func (d *DatabaseClient) FinalizeBatch(batchID uuid.UUID, status, errorSummary string) error {
	var summary sql.NullString
	if errorSummary != "" {
		summary = sql.NullString{String: errorSummary, Valid: true}
	}
	_, err := d.db.Exec(`
		UPDATE batches
		SET status = $1, error_summary = $2, updated_at = NOW()
		WHERE id = $3
	`, status, summary, batchID)
	if err != nil {
		return fmt.Errorf("failed to finalize batch: %w", err)
	}
	return nil
}

// RequeueBatch resets a stuck processing batch back to queued so it can be
// claimed again. Processing restarts from scratch; row jobs are reset too.
func (d *DatabaseClient) RequeueBatch(batchID, userID uuid.UUID) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	result, err := tx.Exec(`
		UPDATE batches
		SET status = $1, processed_rows = 0, successful_rows = 0, failed_rows = 0,
		    error_summary = NULL, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = $4
	`, models.BatchStatusQueued, batchID, userID, models.BatchStatusProcessing)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to requeue batch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to read requeue result: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return fmt.Errorf("batch is not in processing state")
	}

	if _, err := tx.Exec(`
		UPDATE row_jobs
		SET status = $1, generated_text = NULL, image_path = NULL, image_url = NULL,
		    error_message = NULL, updated_at = NOW()
		WHERE batch_id = $2
	`, models.RowStatusPending, batchID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to reset row jobs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit requeue: %w", err)
	}
	return nil
}

func (d *DatabaseClient) DeleteBatch(batchID, userID uuid.UUID) error {
	// row_jobs cascade via FK
	_, err := d.db.Exec(`
		DELETE FROM batches
		WHERE id = $1 AND user_id = $2
	`, batchID, userID)
	return err
}

// --- row jobs ---

// CreateRowJobs bulk-inserts the pending rows for a freshly created batch in
// one transaction so a storage failure never leaves a half-created batch.
func (d *DatabaseClient) CreateRowJobs(batchID uuid.UUID, jobs []models.RowJob) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO row_jobs (batch_id, row_number, fields, trigger_prompt, status)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		if _, err := stmt.Exec(batchID, job.RowNumber, job.Fields, job.TriggerPrompt, models.RowStatusPending); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert row job %d: %w", job.RowNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit row jobs: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListRowJobs(batchID uuid.UUID) ([]models.RowJob, error) {
	rows, err := d.db.Query(`
		SELECT batch_id, row_number, fields, trigger_prompt, status, generated_text,
		       image_path, image_url, error_message, retry_count, created_at, updated_at
		FROM row_jobs
		WHERE batch_id = $1
		ORDER BY row_number ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list row jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.RowJob
	for rows.Next() {
		var job models.RowJob
		err := rows.Scan(
			&job.BatchID, &job.RowNumber, &job.Fields, &job.TriggerPrompt, &job.Status,
			&job.GeneratedText, &job.ImagePath, &job.ImageURL, &job.ErrorMessage,
			&job.RetryCount, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row job: %w", err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (d *DatabaseClient) MarkRowSuccess(batchID uuid.UUID, rowNumber int, generatedText, imagePath, imageURL string) error {
	_, err := d.db.Exec(`
		UPDATE row_jobs
		SET status = $1, generated_text = $2, image_path = $3, image_url = $4, updated_at = NOW()
		WHERE batch_id = $5 AND row_number = $6
	`, models.RowStatusSuccess, generatedText, imagePath, imageURL, batchID, rowNumber)
	if err != nil {
		return fmt.Errorf("failed to mark row success: %w", err)
	}
	return nil
}

func (d *DatabaseClient) MarkRowFailure(batchID uuid.UUID, rowNumber int, errorMsg string) error {
	_, err := d.db.Exec(`
		UPDATE row_jobs
		SET status = $1, error_message = $2, retry_count = retry_count + 1, updated_at = NOW()
		WHERE batch_id = $3 AND row_number = $4
	`, models.RowStatusFailed, errorMsg, batchID, rowNumber)
	if err != nil {
		return fmt.Errorf("failed to mark row failure: %w", err)
	}
	return nil
}

// --- generated images ---

func (d *DatabaseClient) CreateGeneratedImage(image *models.GeneratedImage) error {
	metadata := image.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}
	_, err := d.db.Exec(`
		INSERT INTO generated_images (id, user_id, prompt, model, source, storage_path, storage_url, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, image.ID, image.UserID, image.Prompt, image.Model, image.Source,
		image.StoragePath, image.StorageURL, metadata)
	if err != nil {
		return fmt.Errorf("failed to create generated image: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetGeneratedImage(imageID, userID uuid.UUID) (*models.GeneratedImage, error) {
	var image models.GeneratedImage
	err := d.db.QueryRow(`
		SELECT id, user_id, prompt, model, source, storage_path, storage_url, metadata, created_at
		FROM generated_images
		WHERE id = $1 AND user_id = $2
	`, imageID, userID).Scan(
		&image.ID, &image.UserID, &image.Prompt, &image.Model, &image.Source,
		&image.StoragePath, &image.StorageURL, &image.Metadata, &image.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get generated image: %w", err)
	}

	return &image, nil
}

func (d *DatabaseClient) ListGeneratedImages(userID uuid.UUID, source, batchID string) ([]models.GeneratedImage, error) {
	query := `
		SELECT id, user_id, prompt, model, source, storage_path, storage_url, metadata, created_at
		FROM generated_images
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	if source != "" {
		args = append(args, source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if batchID != "" {
		// Batch provenance lives in the metadata blob, not a column.
		args = append(args, batchID)
		query += fmt.Sprintf(" AND metadata->>'batch_id' = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated images: %w", err)
	}
	defer rows.Close()

	var images []models.GeneratedImage
	for rows.Next() {
		var image models.GeneratedImage
		err := rows.Scan(
			&image.ID, &image.UserID, &image.Prompt, &image.Model, &image.Source,
			&image.StoragePath, &image.StorageURL, &image.Metadata, &image.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generated image: %w", err)
		}
		images = append(images, image)
	}

	return images, nil
}

// --- integrations ---

func (d *DatabaseClient) UpsertIntegrationCredential(cred *models.IntegrationCredential) error {
	_, err := d.db.Exec(`
		INSERT INTO integration_credentials (user_id, org_id, integration, base_url, username, api_token, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (user_id, org_id, integration)
		DO UPDATE SET base_url = $4, username = $5, api_token = $6, active = TRUE, updated_at = NOW()
	`, cred.UserID, cred.OrgID, cred.Integration, cred.BaseURL, cred.Username, cred.APIToken)
	if err != nil {
		return fmt.Errorf("failed to upsert integration credential: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetIntegrationCredential(userID uuid.UUID, orgID, integration string) (*models.IntegrationCredential, error) {
	var cred models.IntegrationCredential
	err := d.db.QueryRow(`
		SELECT user_id, org_id, integration, base_url, username, api_token, active,
		       last_synced_at, created_at, updated_at
		FROM integration_credentials
		WHERE user_id = $1 AND org_id = $2 AND integration = $3
	`, userID, orgID, integration).Scan(
		&cred.UserID, &cred.OrgID, &cred.Integration, &cred.BaseURL, &cred.Username,
		&cred.APIToken, &cred.Active, &cred.LastSyncedAt, &cred.CreatedAt, &cred.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get integration credential: %w", err)
	}

	return &cred, nil
}

// DeleteIntegrationCredential removes the credential and every calendar event
// that was sourced from it.
func (d *DatabaseClient) DeleteIntegrationCredential(userID uuid.UUID, orgID, integration string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM calendar_events
		WHERE user_id = $1 AND source = $2
	`, userID, integration); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete calendar events: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM integration_credentials
		WHERE user_id = $1 AND org_id = $2 AND integration = $3
	`, userID, orgID, integration); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete integration credential: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit disconnect: %w", err)
	}
	return nil
}

func (d *DatabaseClient) TouchIntegrationSynced(userID uuid.UUID, orgID, integration string, syncedAt time.Time) error {
	_, err := d.db.Exec(`
		UPDATE integration_credentials
		SET last_synced_at = $1, updated_at = NOW()
		WHERE user_id = $2 AND org_id = $3 AND integration = $4
	`, syncedAt, userID, orgID, integration)
	return err
}

// --- calendar events ---

func (d *DatabaseClient) UpsertCalendarEvent(event *models.CalendarEvent) error {
	metadata := event.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}
	_, err := d.db.Exec(`
		INSERT INTO calendar_events (id, user_id, source, external_key, title, due_date, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, source, external_key)
		DO UPDATE SET title = $5, due_date = $6, status = $7, metadata = $8, updated_at = NOW()
	`, event.ID, event.UserID, event.Source, event.ExternalKey, event.Title,
		event.DueDate, event.Status, metadata)
	if err != nil {
		return fmt.Errorf("failed to upsert calendar event: %w", err)
	}
	return nil
}

func (d *DatabaseClient) ListCalendarEvents(userID uuid.UUID) ([]models.CalendarEvent, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, source, external_key, title, due_date, status, metadata, created_at, updated_at
		FROM calendar_events
		WHERE user_id = $1
		ORDER BY due_date ASC NULLS LAST, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		var event models.CalendarEvent
		err := rows.Scan(
			&event.ID, &event.UserID, &event.Source, &event.ExternalKey, &event.Title,
			&event.DueDate, &event.Status, &event.Metadata, &event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, event)
	}

	return events, nil
}
