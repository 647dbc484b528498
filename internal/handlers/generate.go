package handlers

import (
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

type GenerateHandler struct {
	dbClient     *supabase.DatabaseClient
	imageStorage *supabase.StorageClient
	googleClient *googleai.Client
	log          zerolog.Logger
}

func NewGenerateHandler(dbClient *supabase.DatabaseClient, imageStorage *supabase.StorageClient, googleClient *googleai.Client, log zerolog.Logger) *GenerateHandler {
	return &GenerateHandler{
		dbClient:     dbClient,
		imageStorage: imageStorage,
		googleClient: googleClient,
		log:          log,
	}
}

// Generate godoc
// @Summary Generate a single image from a prompt
// @Description Runs the text-to-image model against a user-authored prompt and stores the result in the library
// @Tags images
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateRequest true "Prompt and options"
// @Success 200 {object} models.ImageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "prompt is required"})
		return
	}

	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	source := req.Source
	switch source {
	case "":
		source = models.SourceManual
	case models.SourceManual, models.SourceEditor:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("unknown source %q", source)})
		return
	}

	var images []googleai.Image
	if err := h.googleClient.RetryWithBackoff(func() error {
		var genErr error
		images, genErr = h.googleClient.GenerateImages(c.Request.Context(), req.Prompt, 1, aspectRatio)
		return genErr
	}, 3); err != nil {
		h.log.Error().Err(err).Msg("manual image generation failed")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "image generation failed", Message: err.Error()})
		return
	}
	image := images[0]

	imageID := uuid.New()
	filename := fmt.Sprintf("%s%s", uuid.New().String(), extensionForMime(image.MimeType))
	storagePath, storageURL, err := h.imageStorage.UploadLibraryImage(userID, imageID, filename, image.Data, image.MimeType)
	if err != nil {
		h.log.Error().Err(err).Str("image_id", imageID.String()).Msg("failed to store generated image")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store generated image"})
		return
	}

	record := &models.GeneratedImage{
		ID:          imageID,
		UserID:      userID,
		Prompt:      req.Prompt,
		Model:       h.googleClient.ImagenModel(),
		Source:      source,
		StoragePath: storagePath,
		StorageURL:  storageURL,
	}
	if err := h.dbClient.CreateGeneratedImage(record); err != nil {
		h.log.Error().Err(err).Str("image_id", imageID.String()).Msg("failed to record generated image")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to record generated image"})
		return
	}

	c.JSON(http.StatusOK, imageToResponse(record))
}
