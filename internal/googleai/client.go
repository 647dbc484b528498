package googleai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoImage is returned when the model answered with text only and produced
// no image payload.
var ErrNoImage = errors.New("no image in model response")

type Client struct {
	baseURL     string
	apiKey      string
	imagenModel string
	editModel   string
	httpClient  *http.Client
}

type Options struct {
	BaseURL     string
	APIKey      string
	ImagenModel string
	EditModel   string
	HTTPClient  *http.Client
}

// Image is one generated payload with its decoded bytes.
type Image struct {
	Data     []byte
	MimeType string
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		imagenModel: opts.ImagenModel,
		editModel:   opts.EditModel,
		httpClient:  httpClient,
	}
}

// ImagenModel returns the configured text-to-image model identifier.
func (c *Client) ImagenModel() string {
	return c.imagenModel
}

// GenerateImages calls the Imagen predict endpoint and decodes the base64
// payloads.
func (c *Client) GenerateImages(ctx context.Context, prompt string, count int, aspectRatio string) ([]Image, error) {
	if count <= 0 {
		count = 1
	}
	payload := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{
			SampleCount: count,
			AspectRatio: aspectRatio,
		},
	}

	var result predictResponse
	path := fmt.Sprintf("/models/%s:predict", url.PathEscape(c.imagenModel))
	if err := c.do(ctx, path, payload, &result); err != nil {
		return nil, fmt.Errorf("failed to generate images: %w", err)
	}

	images := make([]Image, 0, len(result.Predictions))
	for _, p := range result.Predictions {
		if p.BytesBase64Encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image payload: %w", err)
		}
		mimeType := p.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		images = append(images, Image{Data: data, MimeType: mimeType})
	}

	if len(images) == 0 {
		return nil, ErrNoImage
	}

	return images, nil
}

// EditImage submits an instruction plus a source image to the Gemini edit
// model and returns the first image part of the response. A text-only
// response yields ErrNoImage.
func (c *Client) EditImage(ctx context.Context, instruction string, image Image) (*Image, error) {
	payload := generateContentRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: instruction},
				{InlineData: &inlineData{
					MimeType: image.MimeType,
					Data:     base64.StdEncoding.EncodeToString(image.Data),
				}},
			},
		}},
	}

	var result generateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.editModel))
	if err := c.do(ctx, path, payload, &result); err != nil {
		return nil, fmt.Errorf("failed to edit image: %w", err)
	}

	for _, candidate := range result.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode edited image: %w", err)
			}
			mimeType := p.InlineData.MimeType
			if mimeType == "" {
				mimeType = image.MimeType
			}
			return &Image{Data: data, MimeType: mimeType}, nil
		}
	}

	return nil, ErrNoImage
}

func (c *Client) do(ctx context.Context, path string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("google status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("google status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// RetryWithBackoff executes a function with a fixed backoff schedule.
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
