package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/googleai"
	"adstudio-backend/internal/models"
	"adstudio-backend/internal/supabase"
)

type ImagesHandler struct {
	dbClient     *supabase.DatabaseClient
	imageStorage *supabase.StorageClient
	googleClient *googleai.Client
	log          zerolog.Logger
}

func NewImagesHandler(dbClient *supabase.DatabaseClient, imageStorage *supabase.StorageClient, googleClient *googleai.Client, log zerolog.Logger) *ImagesHandler {
	return &ImagesHandler{
		dbClient:     dbClient,
		imageStorage: imageStorage,
		googleClient: googleClient,
		log:          log,
	}
}

// List godoc
// @Summary List the caller's generated images
// @Tags images
// @Produce json
// @Security BearerAuth
// @Param source query string false "Filter by generation source (manual, batch, editor)"
// @Param batch_id query string false "Filter by originating batch"
// @Success 200 {object} models.ImageListResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /images [get]
func (h *ImagesHandler) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	source := c.Query("source")
	switch source {
	case "", models.SourceManual, models.SourceBatch, models.SourceEditor:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("unknown source %q", source)})
		return
	}

	batchID := c.Query("batch_id")
	if batchID != "" {
		if _, err := uuid.Parse(batchID); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid batch id"})
			return
		}
	}

	images, err := h.dbClient.ListGeneratedImages(userID, source, batchID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list images")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list images"})
		return
	}

	responses := make([]models.ImageResponse, len(images))
	for i, image := range images {
		responses[i] = imageToResponse(&image)
	}

	c.JSON(http.StatusOK, models.ImageListResponse{Images: responses})
}

// Edit godoc
// @Summary Edit an existing image with an instruction
// @Description Runs the edit model against a stored image and saves the result as a new image record
// @Tags images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param image_id path string true "Image ID"
// @Param request body models.EditImageRequest true "Edit instruction"
// @Success 200 {object} models.ImageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /images/{image_id}/edit [post]
func (h *ImagesHandler) Edit(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image id"})
		return
	}

	var req models.EditImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if strings.TrimSpace(req.Instruction) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "instruction is required"})
		return
	}

	original, err := h.dbClient.GetGeneratedImage(imageID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "image not found"})
		return
	}

	data, err := h.imageStorage.DownloadFile(original.StoragePath)
	if err != nil {
		h.log.Error().Err(err).Str("image_id", imageID.String()).Msg("failed to download source image")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load source image"})
		return
	}

	source := googleai.Image{Data: data, MimeType: mimeForPath(original.StoragePath)}
	var edited *googleai.Image
	if err := h.googleClient.RetryWithBackoff(func() error {
		var editErr error
		edited, editErr = h.googleClient.EditImage(c.Request.Context(), req.Instruction, source)
		return editErr
	}, 3); err != nil {
		h.log.Error().Err(err).Str("image_id", imageID.String()).Msg("image edit failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "image edit failed", Message: err.Error()})
		return
	}

	newID := uuid.New()
	filename := fmt.Sprintf("%s%s", uuid.New().String(), extensionForMime(edited.MimeType))
	storagePath, storageURL, err := h.imageStorage.UploadLibraryImage(userID, newID, filename, edited.Data, edited.MimeType)
	if err != nil {
		h.log.Error().Err(err).Str("image_id", imageID.String()).Msg("failed to store edited image")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store edited image"})
		return
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"parent_image_id": original.ID.String(),
		"instruction":     req.Instruction,
	})
	record := &models.GeneratedImage{
		ID:          newID,
		UserID:      userID,
		Prompt:      req.Instruction,
		Model:       "gemini-edit",
		Source:      models.SourceEditor,
		StoragePath: storagePath,
		StorageURL:  storageURL,
		Metadata:    metadata,
	}
	if err := h.dbClient.CreateGeneratedImage(record); err != nil {
		h.log.Error().Err(err).Str("image_id", newID.String()).Msg("failed to record edited image")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to record edited image"})
		return
	}

	c.JSON(http.StatusOK, imageToResponse(record))
}

func imageToResponse(image *models.GeneratedImage) models.ImageResponse {
	return models.ImageResponse{
		ID:         image.ID.String(),
		Prompt:     image.Prompt,
		Model:      image.Model,
		Source:     image.Source,
		StorageURL: image.StorageURL,
		CreatedAt:  image.CreatedAt,
	}
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func mimeForPath(storagePath string) string {
	switch {
	case strings.HasSuffix(storagePath, ".jpg"), strings.HasSuffix(storagePath, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(storagePath, ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}
