package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notion-task-intake/pkg/gemini"
)

func TestNew_Validate(t *testing.T) {
	_, err := gemini.New(gemini.Config{})
	assert.Error(t, err)

	client, err := gemini.New(gemini.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, gemini.DefaultModel, client.Model())
}

func newTestClient(t *testing.T, h http.HandlerFunc) gemini.IGemini {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	client, err := gemini.New(gemini.Config{APIKey: "test-api-key", Model: "gemini-test", APIURL: ts.URL + "/"})
	require.NoError(t, err)
	return client
}

func TestGenerate(t *testing.T) {
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"tasks\": "}, {"text": "[]}"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 5, "totalTokenCount": 17},
			"modelVersion": "gemini-test-001"
		}`))
	})

	res, err := client.Generate(context.Background(), gemini.GenerateRequest{
		System:           "be terse",
		Turns:            []gemini.Turn{{Role: "user", Text: "Hello world"}},
		ResponseMIMEType: "application/json",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"tasks": []}`, res.Text)
	assert.Equal(t, "STOP", res.FinishReason)
	assert.Equal(t, "gemini-test-001", res.Model)
	assert.Equal(t, gemini.Usage{InputTokens: 12, OutputTokens: 5, TotalTokens: 17}, res.Usage)

	genCfg := body["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.Equal(t, float64(0), genCfg["temperature"])
	assert.Contains(t, body, "systemInstruction")
	contents := body["contents"].([]interface{})
	assert.Equal(t, "user", contents[0].(map[string]interface{})["role"])
}

func TestGenerate_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := client.Generate(context.Background(), gemini.GenerateRequest{})
	var apiErr *gemini.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus())
	assert.Equal(t, "INVALID_ARGUMENT", apiErr.Status)
	assert.Equal(t, "API key not valid", apiErr.Message)
}

func TestGenerate_Blocked(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.Generate(context.Background(), gemini.GenerateRequest{})
	assert.ErrorIs(t, err, gemini.ErrBlocked)
}

func TestGenerate_NoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), gemini.GenerateRequest{})
	assert.ErrorIs(t, err, gemini.ErrNoCandidates)
}
