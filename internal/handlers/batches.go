package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/config"
	"adstudio-backend/internal/models"
	"adstudio-backend/internal/services"
	"adstudio-backend/internal/supabase"
)

type BatchesHandler struct {
	cfg          *config.Config
	dbClient     *supabase.DatabaseClient
	imageStorage *supabase.StorageClient
	csvStorage   *supabase.StorageClient
	batchService *services.BatchService
	log          zerolog.Logger
}

func NewBatchesHandler(cfg *config.Config, dbClient *supabase.DatabaseClient, imageStorage, csvStorage *supabase.StorageClient, batchService *services.BatchService, log zerolog.Logger) *BatchesHandler {
	return &BatchesHandler{
		cfg:          cfg,
		dbClient:     dbClient,
		imageStorage: imageStorage,
		csvStorage:   csvStorage,
		batchService: batchService,
		log:          log,
	}
}

// List godoc
// @Summary List the caller's batches
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.BatchListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /batches [get]
func (h *BatchesHandler) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	batches, err := h.dbClient.ListBatches(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list batches")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list batches"})
		return
	}

	summaries := make([]models.BatchSummary, len(batches))
	for i, b := range batches {
		summaries[i] = models.BatchSummary{
			ID:            b.ID.String(),
			Filename:      b.Filename,
			Status:        b.Status,
			TotalRows:     b.TotalRows,
			ProcessedRows: b.ProcessedRows,
			CreatedAt:     b.CreatedAt,
			UpdatedAt:     b.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, models.BatchListResponse{Batches: summaries})
}

// Get godoc
// @Summary Get a batch with its progress counters
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param batch_id path string true "Batch ID"
// @Success 200 {object} models.BatchResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /batches/{batch_id} [get]
func (h *BatchesHandler) Get(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid batch id"})
		return
	}

	b, err := h.dbClient.GetBatch(batchID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "batch not found"})
		return
	}

	c.JSON(http.StatusOK, batchToResponse(b))
}

// Rows godoc
// @Summary List the per-row results of a batch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param batch_id path string true "Batch ID"
// @Success 200 {object} models.RowJobListResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /batches/{batch_id}/rows [get]
func (h *BatchesHandler) Rows(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid batch id"})
		return
	}

	if _, err := h.dbClient.GetBatch(batchID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "batch not found"})
		return
	}

	jobs, err := h.dbClient.ListRowJobs(batchID)
	if err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to list row jobs")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list rows"})
		return
	}

	rows := make([]models.RowJobResponse, len(jobs))
	for i, job := range jobs {
		rows[i] = models.RowJobResponse{
			RowNumber:     job.RowNumber,
			Status:        job.Status,
			TriggerPrompt: job.TriggerPrompt,
			GeneratedText: job.GeneratedText.String,
			ImageURL:      job.ImageURL.String,
			ErrorMessage:  job.ErrorMessage.String,
		}
	}

	c.JSON(http.StatusOK, models.RowJobListResponse{BatchID: batchID.String(), Rows: rows})
}

// Requeue godoc
// @Summary Requeue a stuck batch
// @Description Resets a batch left in processing by a dead worker back to queued and restarts it from scratch
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param batch_id path string true "Batch ID"
// @Success 200 {object} models.BatchResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /batches/{batch_id}/requeue [post]
func (h *BatchesHandler) Requeue(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid batch id"})
		return
	}

	b, err := h.dbClient.GetBatch(batchID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "batch not found"})
		return
	}
	if b.Status != models.BatchStatusProcessing {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "batch is not stuck",
			Message: "only batches in the processing state can be requeued",
		})
		return
	}

	if err := h.dbClient.RequeueBatch(batchID, userID); err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to requeue batch")
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "failed to requeue batch", Message: err.Error()})
		return
	}

	aspectRatio, batchSize := batchOptions(b, h.cfg.DefaultBatchSize)
	whiteBackground := b.Department == "ecommerce"
	if err := h.batchService.Relaunch(b, aspectRatio, whiteBackground, batchSize); err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to relaunch batch")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to restart batch"})
		return
	}

	refreshed, err := h.dbClient.GetBatch(batchID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "batch not found"})
		return
	}
	c.JSON(http.StatusOK, batchToResponse(refreshed))
}

// Delete godoc
// @Summary Delete a batch, its rows and its stored files
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param batch_id path string true "Batch ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /batches/{batch_id} [delete]
func (h *BatchesHandler) Delete(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid batch id"})
		return
	}

	if _, err := h.dbClient.GetBatch(batchID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "batch not found"})
		return
	}

	// Storage cleanup is best effort. Orphaned files are preferable to a
	// batch record that refuses to die.
	if err := h.imageStorage.DeleteBatchFiles(batchID); err != nil {
		h.log.Warn().Err(err).Str("batch_id", batchID.String()).Msg("failed to delete batch images")
	}
	if err := h.csvStorage.DeleteBatchFiles(batchID); err != nil {
		h.log.Warn().Err(err).Str("batch_id", batchID.String()).Msg("failed to delete batch csv")
	}

	if err := h.dbClient.DeleteBatch(batchID, userID); err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to delete batch")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete batch"})
		return
	}

	c.Status(http.StatusNoContent)
}

func batchToResponse(b *models.Batch) models.BatchResponse {
	var metadata map[string]interface{}
	if len(b.Metadata) > 0 {
		_ = json.Unmarshal(b.Metadata, &metadata)
	}

	return models.BatchResponse{
		ID:             b.ID.String(),
		Filename:       b.Filename,
		Department:     b.Department,
		Status:         b.Status,
		TotalRows:      b.TotalRows,
		ProcessedRows:  b.ProcessedRows,
		SuccessfulRows: b.SuccessfulRows,
		FailedRows:     b.FailedRows,
		ErrorSummary:   b.ErrorSummary.String,
		Metadata:       metadata,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// batchOptions recovers the submission options stashed in the batch metadata.
func batchOptions(b *models.Batch, defaultBatchSize int) (string, int) {
	aspectRatio := "1:1"
	batchSize := defaultBatchSize

	var metadata struct {
		AspectRatio string `json:"aspect_ratio"`
		BatchSize   int    `json:"batch_size"`
	}
	if len(b.Metadata) > 0 && json.Unmarshal(b.Metadata, &metadata) == nil {
		if metadata.AspectRatio != "" {
			aspectRatio = metadata.AspectRatio
		}
		if metadata.BatchSize > 0 {
			batchSize = metadata.BatchSize
		}
	}

	return aspectRatio, batchSize
}
