package gemini

import (
	"fmt"
	"net/http"
	"strings"
)

type Config struct {
	APIKey     string
	Model      string
	APIURL     string
	HTTPClient *http.Client
}

// Validate fills in defaults. Only APIKey is required.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("gemini: APIKey is required")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Turn is one conversation entry. Role is "user" or "model".
type Turn struct {
	Role string
	Text string
}

type GenerateRequest struct {
	System           string
	Turns            []Turn
	Temperature      float64
	MaxOutputTokens  int
	ResponseMIMEType string // "application/json" for JSON mode
}

type GenerateResult struct {
	Text         string
	FinishReason string
	Model        string
	Usage        Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// APIError is a non-200 answer from the API.
type APIError struct {
	StatusCode int
	Status     string // e.g. INVALID_ARGUMENT
	Message    string
}

func (e *APIError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("gemini: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini: API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.StatusCode }

type wireRequest struct {
	SystemInstruction *wireContent         `json:"systemInstruction,omitempty"`
	Contents          []wireContent        `json:"contents"`
	GenerationConfig  wireGenerationConfig `json:"generationConfig"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text string `json:"text"`
}

type wireGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content      wireContent `json:"content"`
		FinishReason string      `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	ModelVersion string `json:"modelVersion"`
}
