package llmprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const structuredInstruction = `You are a precise information extraction engine.
Respond with a single JSON document and nothing else. No markdown, no commentary.
The document MUST conform to this JSON Schema:
%s`

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// GenerateJSON asks the providers for a JSON document matching schema and
// decodes it into out. The schema is a JSON Schema object.
func (m *Manager) GenerateJSON(ctx context.Context, prompt string, schema map[string]interface{}, out interface{}) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("%w: marshal schema: %v", ErrInvalidRequest, err)
	}

	resp, err := m.GenerateContent(ctx, &Request{
		System:   fmt.Sprintf(structuredInstruction, schemaJSON),
		Messages: []Message{{Role: RoleUser, Text: prompt}},
		JSONMode: true,
	})
	if err != nil {
		return err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return fmt.Errorf("%s: %w", resp.ProviderName, ErrEmptyResponse)
	}

	if err := json.Unmarshal([]byte(SanitizeJSON(text)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// SanitizeJSON strips markdown code fences and surrounding prose from a model
// answer, leaving the outermost JSON object or array.
func SanitizeJSON(text string) string {
	if matches := codeFenceRe.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return text
	}
	end := strings.LastIndexAny(text, "]}")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}
