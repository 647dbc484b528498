package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"adstudio-backend/internal/googleai"
	"adstudio-backend/internal/models"
	"adstudio-backend/internal/prompt"
)

// noTextSuffix keeps the image model from rendering copy onto the product
// itself. Appended to every image prompt.
const noTextSuffix = " Do not render any text, lettering or logos on the product."

// whiteBackgroundInstruction is the fixed edit instruction for the optional
// catalog-style post-processing pass.
const whiteBackgroundInstruction = "Place the product on a clean, pure white studio background. " +
	"Keep the product itself unchanged. Product catalog style, soft even lighting."

// vendorMaxRetries bounds the backoff retries around each vendor call.
const vendorMaxRetries = 3

// TextGenerator is the assistant-backed copy/prompt generator.
type TextGenerator interface {
	CreateThread(ctx context.Context, message string) (string, error)
	CreateRun(ctx context.Context, threadID, assistantID string) (string, error)
	WaitForRun(ctx context.Context, threadID, runID string) error
	LatestAssistantMessage(ctx context.Context, threadID string) (string, error)
	RetryWithBackoff(fn func() error, maxRetries int) error
}

// ImageGenerator produces and edits image payloads.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, prompt string, count int, aspectRatio string) ([]googleai.Image, error)
	EditImage(ctx context.Context, instruction string, image googleai.Image) (*googleai.Image, error)
	ImagenModel() string
	RetryWithBackoff(fn func() error, maxRetries int) error
}

// ImageStorage persists image bytes and returns (path, publicURL).
type ImageStorage interface {
	UploadRowImage(batchID uuid.UUID, rowNumber int, filename string, data []byte, contentType string) (string, string, error)
}

// ImageRecorder inserts library records for generated images.
type ImageRecorder interface {
	CreateGeneratedImage(image *models.GeneratedImage) error
}

// Row is one unit of work handed to the per-row pipeline.
type Row struct {
	BatchID         uuid.UUID
	UserID          uuid.UUID
	Number          int
	Record          models.CSVRow
	TriggerPrompt   string
	AspectRatio     string
	WhiteBackground bool
}

// Outcome captures a row's result. Err is set on failure; success carries the
// generated text and the stored image reference.
type Outcome struct {
	Row           Row
	GeneratedText string
	ImagePath     string
	ImageURL      string
	Err           error
}

// RowProcessor runs the per-row generation pipeline.
type RowProcessor interface {
	ProcessRow(ctx context.Context, row Row) Outcome
}

// Pipeline chains assistant text generation, reference cleaning, image
// generation, the optional white-background edit and the storage upload.
type Pipeline struct {
	text        TextGenerator
	images      ImageGenerator
	storage     ImageStorage
	recorder    ImageRecorder
	assistantID string
	log         zerolog.Logger
}

func NewPipeline(text TextGenerator, images ImageGenerator, storage ImageStorage, recorder ImageRecorder, assistantID string, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		text:        text,
		images:      images,
		storage:     storage,
		recorder:    recorder,
		assistantID: assistantID,
		log:         log,
	}
}

func (p *Pipeline) ProcessRow(ctx context.Context, row Row) Outcome {
	outcome := Outcome{Row: row}

	generatedText, err := p.generateText(ctx, row.TriggerPrompt)
	if err != nil {
		outcome.Err = fmt.Errorf("text generation: %w", err)
		return outcome
	}
	outcome.GeneratedText = generatedText

	imagePrompt := ExtractImagePrompt(generatedText) + noTextSuffix

	var images []googleai.Image
	if err := p.images.RetryWithBackoff(func() error {
		var genErr error
		images, genErr = p.images.GenerateImages(ctx, imagePrompt, 1, row.AspectRatio)
		return genErr
	}, vendorMaxRetries); err != nil {
		outcome.Err = fmt.Errorf("image generation: %w", err)
		return outcome
	}
	if len(images) == 0 {
		outcome.Err = fmt.Errorf("image generation: no image returned")
		return outcome
	}
	image := images[0]

	if row.WhiteBackground {
		var edited *googleai.Image
		err := p.images.RetryWithBackoff(func() error {
			var editErr error
			edited, editErr = p.images.EditImage(ctx, whiteBackgroundInstruction, image)
			return editErr
		}, vendorMaxRetries)
		if err != nil {
			// Best-effort pass: keep the primary image on any edit failure.
			p.log.Warn().Err(err).
				Str("batch_id", row.BatchID.String()).
				Int("row", row.Number).
				Msg("white background edit failed, keeping original image")
		} else if edited != nil {
			image = *edited
		}
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), extensionForMime(image.MimeType))
	storagePath, storageURL, err := p.storage.UploadRowImage(row.BatchID, row.Number, filename, image.Data, image.MimeType)
	if err != nil {
		outcome.Err = fmt.Errorf("storage upload: %w", err)
		return outcome
	}
	outcome.ImagePath = storagePath
	outcome.ImageURL = storageURL

	metadata, _ := json.Marshal(map[string]interface{}{
		"batch_id":   row.BatchID.String(),
		"row_number": row.Number,
	})
	record := &models.GeneratedImage{
		ID:          uuid.New(),
		UserID:      row.UserID,
		Prompt:      imagePrompt,
		Model:       p.images.ImagenModel(),
		Source:      models.SourceBatch,
		StoragePath: storagePath,
		StorageURL:  storageURL,
		Metadata:    metadata,
	}
	if err := p.recorder.CreateGeneratedImage(record); err != nil {
		outcome.Err = fmt.Errorf("image record: %w", err)
		return outcome
	}

	return outcome
}

// generateText runs the assistant leg. The create and fetch calls are
// retried with backoff; the poll loop is not, its budget already bounds it.
func (p *Pipeline) generateText(ctx context.Context, triggerPrompt string) (string, error) {
	var threadID string
	if err := p.text.RetryWithBackoff(func() error {
		var err error
		threadID, err = p.text.CreateThread(ctx, triggerPrompt)
		return err
	}, vendorMaxRetries); err != nil {
		return "", err
	}

	var runID string
	if err := p.text.RetryWithBackoff(func() error {
		var err error
		runID, err = p.text.CreateRun(ctx, threadID, p.assistantID)
		return err
	}, vendorMaxRetries); err != nil {
		return "", err
	}

	if err := p.text.WaitForRun(ctx, threadID, runID); err != nil {
		return "", err
	}

	var raw string
	if err := p.text.RetryWithBackoff(func() error {
		var err error
		raw, err = p.text.LatestAssistantMessage(ctx, threadID)
		return err
	}, vendorMaxRetries); err != nil {
		return "", err
	}

	return prompt.CleanReferences(raw), nil
}

// ExtractImagePrompt pulls the image prompt out of cleaned assistant text.
// Assistants configured for JSON answer with {"prompt": "..."}; anything that
// fails to parse is used verbatim. The extracted field is cleaned again since
// escaped JSON can smuggle a marker past the first pass.
func ExtractImagePrompt(cleaned string) string {
	candidate := strings.TrimSpace(cleaned)
	candidate = strings.TrimPrefix(candidate, "```json")
	candidate = strings.TrimPrefix(candidate, "```")
	candidate = strings.TrimSuffix(candidate, "```")
	candidate = strings.TrimSpace(candidate)

	var parsed struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil && strings.TrimSpace(parsed.Prompt) != "" {
		return prompt.CleanReferences(parsed.Prompt)
	}

	return prompt.CleanReferences(candidate)
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
