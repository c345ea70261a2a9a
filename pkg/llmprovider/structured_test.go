package llmprovider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingProvider records the last request and answers with a fixed text.
type capturingProvider struct {
	text    string
	lastReq *Request
}

func (c *capturingProvider) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	c.lastReq = req
	return &Response{Text: c.text}, nil
}

func (c *capturingProvider) Name() string  { return "capture" }
func (c *capturingProvider) Model() string { return "capture-model" }

func TestSanitizeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n[1,2]\n```", `[1,2]`},
		{"prose around", `Sure! Here it is: {"a":1} hope it helps`, `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeJSON(tt.in))
		})
	}
}

func TestGenerateJSON_DecodesIntoOut(t *testing.T) {
	provider := &capturingProvider{text: "```json\n{\"dueDate\":\"2024-03-15\"}\n```"}
	m := newTestManager(Config{}, provider)

	var out struct {
		DueDate *string `json:"dueDate"`
	}
	schema := map[string]interface{}{"type": "object"}
	require.NoError(t, m.GenerateJSON(context.Background(), "when is it due?", schema, &out))

	require.NotNil(t, out.DueDate)
	assert.Equal(t, "2024-03-15", *out.DueDate)

	req := provider.lastReq
	assert.True(t, req.JSONMode)
	assert.Zero(t, req.Temperature)
	assert.Contains(t, req.System, `"type":"object"`)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, Message{Role: RoleUser, Text: "when is it due?"}, req.Messages[0])
}

func TestGenerateJSON_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		schema   map[string]interface{}
		want     error
	}{
		{"empty response", &capturingProvider{text: "  "}, map[string]interface{}{}, ErrEmptyResponse},
		{"malformed output", &capturingProvider{text: "{not json}"}, map[string]interface{}{}, ErrMalformedOutput},
		{"provider failure", &scriptedProvider{name: "broken", errs: []error{errors.New("down")}}, map[string]interface{}{}, ErrAllProvidersFailed},
		{"bad schema", &capturingProvider{text: "{}"}, map[string]interface{}{"f": func() {}}, ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(Config{}, tt.provider)
			var out map[string]interface{}
			err := m.GenerateJSON(context.Background(), "x", tt.schema, &out)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
