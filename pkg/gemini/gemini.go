// Package gemini is a minimal client for the Gemini generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultAPIURL  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTimeout = 30 * time.Second
)

var (
	// ErrBlocked means the prompt was rejected by safety filters.
	ErrBlocked = errors.New("gemini: prompt blocked")

	// ErrNoCandidates means the answer held no candidate.
	ErrNoCandidates = errors.New("gemini: no candidates in response")
)

// IGemini generates content with one model. Safe for concurrent use.
type IGemini interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	Model() string
}

func New(cfg Config) (IGemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   fmt.Sprintf("%s/models/%s:generateContent", cfg.APIURL, url.PathEscape(cfg.Model)),
		httpClient: cfg.HTTPClient,
	}, nil
}

type client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func (c *client) Model() string { return c.model }

// Generate sends one generateContent call and joins the text parts of the
// first candidate.
func (c *client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	raw, err := json.Marshal(buildWireRequest(req))
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	return c.toResult(out)
}

func buildWireRequest(req GenerateRequest) wireRequest {
	w := wireRequest{
		Contents: make([]wireContent, 0, len(req.Turns)),
		GenerationConfig: wireGenerationConfig{
			Temperature:      req.Temperature,
			MaxOutputTokens:  req.MaxOutputTokens,
			ResponseMimeType: req.ResponseMIMEType,
		},
	}
	if req.System != "" {
		w.SystemInstruction = &wireContent{Parts: []wirePart{{Text: req.System}}}
	}
	for _, t := range req.Turns {
		w.Contents = append(w.Contents, wireContent{Role: t.Role, Parts: []wirePart{{Text: t.Text}}})
	}
	return w
}

func (c *client) toResult(out wireResponse) (*GenerateResult, error) {
	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrBlocked, out.PromptFeedback.BlockReason)
	}
	if len(out.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	cand := out.Candidates[0]
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}

	res := &GenerateResult{
		Text:         sb.String(),
		FinishReason: cand.FinishReason,
		Model:        out.ModelVersion,
	}
	if res.Model == "" {
		res.Model = c.model
	}
	if out.UsageMetadata != nil {
		res.Usage = Usage{
			InputTokens:  out.UsageMetadata.PromptTokenCount,
			OutputTokens: out.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  out.UsageMetadata.TotalTokenCount,
		}
	}
	return res, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error *struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error != nil {
		apiErr.Status = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
