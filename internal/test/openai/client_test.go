package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adstudio-backend/internal/openai"
)

func newTestClient(serverURL string, pollAttempts int) *openai.Client {
	return openai.NewClient(openai.Options{
		BaseURL:      serverURL,
		APIKey:       "test-key",
		PollAttempts: pollAttempts,
		PollInterval: time.Millisecond,
	})
}

func TestCreateThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		messages := payload["messages"].([]interface{})
		require.Len(t, messages, 1)

		json.NewEncoder(w).Encode(map[string]string{"id": "thread_abc"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5)
	threadID, err := client.CreateThread(context.Background(), "Product: Soda")
	require.NoError(t, err)
	assert.Equal(t, "thread_abc", threadID)
}

func TestWaitForRun_Completes(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "in_progress"
		if polls >= 3 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": status})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 10)
	err := client.WaitForRun(context.Background(), "thread_1", "run_1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, polls, 3)
}

func TestWaitForRun_TimeoutIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "in_progress"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)
	err := client.WaitForRun(context.Background(), "thread_1", "run_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, openai.ErrRunTimeout)
}

func TestWaitForRun_TerminalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "expired"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5)
	err := client.WaitForRun(context.Background(), "thread_1", "run_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, openai.ErrRunTimeout)
	assert.Contains(t, err.Error(), "expired")
}

func TestLatestAssistantMessage_SkipsUserMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"role": "user",
					"content": []map[string]interface{}{
						{"type": "text", "text": map[string]string{"value": "trigger"}},
					},
				},
				{
					"role": "assistant",
					"content": []map[string]interface{}{
						{"type": "text", "text": map[string]string{"value": "generated copy"}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5)
	msg, err := client.LatestAssistantMessage(context.Background(), "thread_1")
	require.NoError(t, err)
	assert.Equal(t, "generated copy", msg)
}

func TestLatestAssistantMessage_NoneFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5)
	_, err := client.LatestAssistantMessage(context.Background(), "thread_1")
	require.Error(t, err)
}

func TestClient_RetryWithBackoff(t *testing.T) {
	client := newTestClient("https://api.test.com/v1", 5)

	callCount := 0
	err := client.RetryWithBackoff(func() error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestClient_RetryWithBackoff_Exhausted(t *testing.T) {
	client := newTestClient("https://api.test.com/v1", 5)

	err := client.RetryWithBackoff(func() error {
		return assert.AnError
	}, 3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
}
