package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRunTimeout is returned by WaitForRun when an assistant run never reaches
// a terminal state within the configured poll budget.
var ErrRunTimeout = errors.New("assistant run timed out")

// Run status values from the Assistants API.
const (
	RunStatusQueued     = "queued"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
	RunStatusCancelled  = "cancelled"
	RunStatusExpired    = "expired"
)

type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollAttempts int
	pollInterval time.Duration
}

type Options struct {
	BaseURL      string
	APIKey       string
	HTTPClient   *http.Client
	PollAttempts int
	PollInterval time.Duration
}

type threadResponse struct {
	ID string `json:"id"`
}

type runResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	LastError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error"`
}

type messageListResponse struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	pollAttempts := opts.PollAttempts
	if pollAttempts <= 0 {
		pollAttempts = 60
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Client{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		httpClient:   httpClient,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
	}
}

// CreateThread creates a thread seeded with a single user message.
func (c *Client) CreateThread(ctx context.Context, message string) (string, error) {
	payload := map[string]interface{}{
		"messages": []map[string]string{
			{"role": "user", "content": message},
		},
	}

	var result threadResponse
	if err := c.do(ctx, http.MethodPost, "/threads", payload, &result); err != nil {
		return "", fmt.Errorf("failed to create thread: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("thread id is empty in response")
	}

	return result.ID, nil
}

// CreateRun starts an assistant run on the given thread.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	payload := map[string]string{"assistant_id": assistantID}

	var result runResponse
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", payload, &result); err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("run id is empty in response")
	}

	return result.ID, nil
}

// GetRun fetches the current status of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (string, error) {
	var result runResponse
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &result); err != nil {
		return "", fmt.Errorf("failed to get run: %w", err)
	}
	if result.Status == RunStatusFailed && result.LastError != nil {
		return result.Status, fmt.Errorf("run failed: %s: %s", result.LastError.Code, result.LastError.Message)
	}
	return result.Status, nil
}

// WaitForRun polls the run until it completes, fails, or the poll budget is
// exhausted. Exhaustion returns ErrRunTimeout so callers can classify the
// failure without string matching.
func (c *Client) WaitForRun(ctx context.Context, threadID, runID string) error {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		status, err := c.GetRun(ctx, threadID, runID)
		if err != nil {
			return err
		}

		switch status {
		case RunStatusCompleted:
			return nil
		case RunStatusFailed, RunStatusCancelled, RunStatusExpired:
			return fmt.Errorf("run ended with status %q", status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return fmt.Errorf("run %s did not complete after %d polls: %w", runID, c.pollAttempts, ErrRunTimeout)
}

// LatestAssistantMessage returns the text of the most recent assistant message
// on the thread.
func (c *Client) LatestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	var result messageListResponse
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/messages?order=desc&limit=10", nil, &result); err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}

	for _, msg := range result.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, block := range msg.Content {
			if block.Type == "text" && block.Text.Value != "" {
				return block.Text.Value, nil
			}
		}
	}

	return "", fmt.Errorf("no assistant message found on thread %s", threadID)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
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
