package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/batch"
	"adstudio-backend/internal/config"
	"adstudio-backend/internal/models"
	"adstudio-backend/internal/prompt"
	"adstudio-backend/internal/services"
	"adstudio-backend/internal/supabase"
)

// requiredColumns are the CSV headers every upload must carry. Additional
// Comments is optional.
var requiredColumns = []string{"Product", "Variant", "Size", "Region", "Theme"}

var validDepartments = map[string]bool{
	"marketing": true,
	"design":    true,
	"ecommerce": true,
	"social":    true,
}

type BulkHandler struct {
	cfg          *config.Config
	dbClient     *supabase.DatabaseClient
	csvStorage   *supabase.StorageClient
	batchService *services.BatchService
	log          zerolog.Logger
}

func NewBulkHandler(cfg *config.Config, dbClient *supabase.DatabaseClient, csvStorage *supabase.StorageClient, batchService *services.BatchService, log zerolog.Logger) *BulkHandler {
	return &BulkHandler{
		cfg:          cfg,
		dbClient:     dbClient,
		csvStorage:   csvStorage,
		batchService: batchService,
		log:          log,
	}
}

// ProcessCSV godoc
// @Summary Submit a CSV for bulk generation
// @Description Validates the upload, creates a queued batch with its row jobs and starts background processing
// @Tags bulk
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BulkCSVRequest true "Parsed CSV rows plus submission options"
// @Success 200 {object} models.BulkCSVResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /bulk-csv-process [post]
func (h *BulkHandler) ProcessCSV(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.BulkCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if len(req.CSVData) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "csvData must contain at least one row"})
		return
	}
	if len(req.CSVData) > h.cfg.MaxCSVRows {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("csvData exceeds the maximum of %d rows", h.cfg.MaxCSVRows),
		})
		return
	}

	if !validDepartments[req.Department] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("unknown department %q", req.Department),
		})
		return
	}

	// Headers are uniform across rows after a CSV parse, so the first row is
	// enough to check the schema.
	var missing []string
	for _, column := range requiredColumns {
		if _, present := req.CSVData[0][column]; !present {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		})
		return
	}

	batchSize := req.BatchSize
	if batchSize < 1 {
		batchSize = h.cfg.DefaultBatchSize
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}
	whiteBackground := req.Department == "ecommerce"

	batchID := uuid.New()
	records := make([]models.CSVRow, len(req.CSVData))
	jobs := make([]models.RowJob, len(req.CSVData))
	rows := make([]batch.Row, len(req.CSVData))
	for i, raw := range req.CSVData {
		record := models.CSVRow{
			Product:            strings.TrimSpace(raw["Product"]),
			Variant:            strings.TrimSpace(raw["Variant"]),
			Size:               strings.TrimSpace(raw["Size"]),
			Region:             strings.TrimSpace(raw["Region"]),
			Theme:              strings.TrimSpace(raw["Theme"]),
			AdditionalComments: strings.TrimSpace(raw["Additional Comments"]),
		}
		records[i] = record

		fields, _ := json.Marshal(record)
		triggerPrompt := prompt.TriggerPrompt(record)
		jobs[i] = models.RowJob{
			BatchID:       batchID,
			RowNumber:     i + 1,
			Fields:        fields,
			TriggerPrompt: triggerPrompt,
		}
		rows[i] = batch.Row{
			BatchID:         batchID,
			UserID:          userID,
			Number:          i + 1,
			Record:          record,
			TriggerPrompt:   triggerPrompt,
			AspectRatio:     aspectRatio,
			WhiteBackground: whiteBackground,
		}
	}

	sourcePath, _, err := h.csvStorage.UploadBatchSource(batchID, serializeCSV(records))
	if err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to archive source csv")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to archive source csv"})
		return
	}

	metadata := map[string]interface{}{
		"aspect_ratio": aspectRatio,
		"batch_size":   batchSize,
		"source_path":  sourcePath,
	}
	if _, err := h.dbClient.CreateBatch(batchID, userID, req.Filename, req.Department, len(rows), metadata); err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to create batch")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create batch"})
		return
	}
	if err := h.dbClient.CreateRowJobs(batchID, jobs); err != nil {
		h.log.Error().Err(err).Str("batch_id", batchID.String()).Msg("failed to create row jobs")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create row jobs"})
		return
	}

	h.batchService.Launch(batchID, rows, batchSize)

	chunks := (len(rows) + batchSize - 1) / batchSize
	estimated := chunks * 2
	if estimated < 1 {
		estimated = 1
	}

	c.JSON(http.StatusOK, models.BulkCSVResponse{
		Success:              true,
		JobID:                batchID.String(),
		Status:               models.BatchStatusQueued,
		TotalRows:            len(rows),
		EstimatedTimeMinutes: estimated,
	})
}

// serializeCSV renders the validated rows back to CSV for archival so the
// stored copy reflects exactly what was processed.
func serializeCSV(records []models.CSVRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Product", "Variant", "Size", "Region", "Theme", "Additional Comments"})
	for _, r := range records {
		_ = w.Write([]string{r.Product, r.Variant, r.Size, r.Region, r.Theme, r.AdditionalComments})
	}
	w.Flush()

	return buf.Bytes()
}
