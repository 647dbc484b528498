package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio-backend/internal/batch"
	"adstudio-backend/internal/googleai"
	"adstudio-backend/internal/models"
)

// instantRetry satisfies the vendor retry contract without sleeping.
type instantRetry struct{}

func (instantRetry) RetryWithBackoff(fn func() error, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

type fakeText struct {
	instantRetry
	message string
	waitErr error
}

func (f *fakeText) CreateThread(ctx context.Context, message string) (string, error) {
	return "thread_1", nil
}

func (f *fakeText) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	return "run_1", nil
}

func (f *fakeText) WaitForRun(ctx context.Context, threadID, runID string) error {
	return f.waitErr
}

func (f *fakeText) LatestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	return f.message, nil
}

type fakeImages struct {
	instantRetry
	generatedPrompt string
	genCalls        int
	failGenerations int
	returnEmpty     bool
	editCalled      bool
	editErr         error
	editResult      *googleai.Image
}

func (f *fakeImages) GenerateImages(ctx context.Context, prompt string, count int, aspectRatio string) ([]googleai.Image, error) {
	f.genCalls++
	f.generatedPrompt = prompt
	if f.genCalls <= f.failGenerations {
		return nil, errors.New("vendor temporarily unavailable")
	}
	if f.returnEmpty {
		return []googleai.Image{}, nil
	}
	return []googleai.Image{{Data: []byte("original"), MimeType: "image/png"}}, nil
}

func (f *fakeImages) EditImage(ctx context.Context, instruction string, image googleai.Image) (*googleai.Image, error) {
	f.editCalled = true
	if f.editErr != nil {
		return nil, f.editErr
	}
	return f.editResult, nil
}

func (f *fakeImages) ImagenModel() string { return "imagen-test" }

type fakeUpload struct {
	data []byte
}

func (f *fakeUpload) UploadRowImage(batchID uuid.UUID, rowNumber int, filename string, data []byte, contentType string) (string, string, error) {
	f.data = data
	return "batches/x/rows/1/" + filename, "https://cdn/" + filename, nil
}

type fakeRecorder struct {
	record *models.GeneratedImage
}

func (f *fakeRecorder) CreateGeneratedImage(image *models.GeneratedImage) error {
	f.record = image
	return nil
}

func TestExtractImagePrompt_JSONPayload(t *testing.T) {
	out := batch.ExtractImagePrompt(`{"prompt": "A bottle on ice"}`)
	assert.Equal(t, "A bottle on ice", out)
}

func TestExtractImagePrompt_FencedJSON(t *testing.T) {
	out := batch.ExtractImagePrompt("```json\n{\"prompt\": \"A bottle on ice\"}\n```")
	assert.Equal(t, "A bottle on ice", out)
}

func TestExtractImagePrompt_PlainTextFallback(t *testing.T) {
	out := batch.ExtractImagePrompt("Just a plain description")
	assert.Equal(t, "Just a plain description", out)
}

func TestExtractImagePrompt_CleansEscapedMarkers(t *testing.T) {
	out := batch.ExtractImagePrompt(`{"prompt": "A drink 【4:1†notes.md】 on a table"}`)
	assert.NotContains(t, out, "†")
	assert.Contains(t, out, "A drink")
}

func TestExtractImagePrompt_EmptyJSONPromptFallsBack(t *testing.T) {
	out := batch.ExtractImagePrompt(`{"prompt": ""}`)
	assert.Equal(t, `{"prompt": ""}`, out)
}

func TestProcessRow_Success(t *testing.T) {
	text := &fakeText{message: `{"prompt": "A citrus soda can"}`}
	images := &fakeImages{}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	row := batch.Row{BatchID: uuid.New(), UserID: uuid.New(), Number: 1, TriggerPrompt: "Product: Soda"}

	outcome := p.ProcessRow(context.Background(), row)
	require.NoError(t, outcome.Err)

	assert.Contains(t, images.generatedPrompt, "A citrus soda can")
	assert.Contains(t, images.generatedPrompt, "Do not render any text")
	assert.False(t, images.editCalled)

	assert.NotEmpty(t, outcome.ImagePath)
	assert.NotEmpty(t, outcome.ImageURL)
	require.NotNil(t, recorder.record)
	assert.Equal(t, models.SourceBatch, recorder.record.Source)
	assert.Equal(t, "imagen-test", recorder.record.Model)
}

func TestProcessRow_TextFailureShortCircuits(t *testing.T) {
	text := &fakeText{waitErr: errors.New("run ended with status \"failed\"")}
	images := &fakeImages{}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	outcome := p.ProcessRow(context.Background(), batch.Row{Number: 1})

	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "text generation")
	assert.Empty(t, images.generatedPrompt)
	assert.Nil(t, recorder.record)
}

func TestProcessRow_WhiteBackgroundUsesEditedImage(t *testing.T) {
	text := &fakeText{message: "plain prompt"}
	images := &fakeImages{editResult: &googleai.Image{Data: []byte("edited"), MimeType: "image/png"}}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	outcome := p.ProcessRow(context.Background(), batch.Row{Number: 1, WhiteBackground: true})

	require.NoError(t, outcome.Err)
	assert.True(t, images.editCalled)
	assert.Equal(t, []byte("edited"), upload.data)
}

func TestProcessRow_TransientGenerationFailureIsRetried(t *testing.T) {
	text := &fakeText{message: "plain prompt"}
	images := &fakeImages{failGenerations: 1}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	outcome := p.ProcessRow(context.Background(), batch.Row{Number: 1})

	require.NoError(t, outcome.Err)
	assert.Equal(t, 2, images.genCalls)
	require.NotNil(t, recorder.record)
}

func TestProcessRow_GenerationFailsAfterRetriesExhausted(t *testing.T) {
	text := &fakeText{message: "plain prompt"}
	images := &fakeImages{failGenerations: 10}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	outcome := p.ProcessRow(context.Background(), batch.Row{Number: 1})

	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "image generation")
	assert.Equal(t, 3, images.genCalls)
	assert.Nil(t, recorder.record)
}

func TestProcessRow_EmptyGenerationIsRowFailure(t *testing.T) {
	text := &fakeText{message: "plain prompt"}
	images := &fakeImages{returnEmpty: true}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	outcome := p.ProcessRow(context.Background(), batch.Row{Number: 1})

	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "no image returned")
	assert.Nil(t, recorder.record)
}

func TestProcessRow_EditFailureKeepsOriginal(t *testing.T) {
	text := &fakeText{message: "plain prompt"}
	images := &fakeImages{editErr: googleai.ErrNoImage}
	upload := &fakeUpload{}
	recorder := &fakeRecorder{}

	p := batch.NewPipeline(text, images, upload, recorder, "asst_1", zerolog.Nop())
	outcome := p.ProcessRow(context.Background(), batch.Row{Number: 1, WhiteBackground: true})

	require.NoError(t, outcome.Err)
	assert.True(t, images.editCalled)
	assert.Equal(t, []byte("original"), upload.data)
	require.NotNil(t, recorder.record)
}
