package llmprovider

import (
	"context"

	"notion-task-intake/pkg/chatcompletion"
	"notion-task-intake/pkg/gemini"
)

const jsonMIMEType = "application/json"

// GeminiAdapter exposes a gemini client as a Provider.
type GeminiAdapter struct {
	client gemini.IGemini
}

func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

func (a *GeminiAdapter) Name() string  { return "gemini" }
func (a *GeminiAdapter) Model() string { return a.client.Model() }

func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	greq := gemini.GenerateRequest{
		System:          req.System,
		Turns:           make([]gemini.Turn, 0, len(req.Messages)),
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.JSONMode {
		greq.ResponseMIMEType = jsonMIMEType
	}
	for _, m := range req.Messages {
		role := m.Role
		if role == RoleAssistant {
			role = "model"
		}
		greq.Turns = append(greq.Turns, gemini.Turn{Role: role, Text: m.Text})
	}

	res, err := a.client.Generate(ctx, greq)
	if err != nil {
		return nil, err
	}
	return &Response{
		Text:         res.Text,
		FinishReason: res.FinishReason,
		ProviderName: a.Name(),
		ModelName:    res.Model,
		Usage: Usage{
			InputTokens:  res.Usage.InputTokens,
			OutputTokens: res.Usage.OutputTokens,
			TotalTokens:  res.Usage.TotalTokens,
		},
	}, nil
}

// ChatAdapter exposes an OpenAI-compatible client (qwen, deepseek) as a
// Provider.
type ChatAdapter struct {
	name   string
	client chatcompletion.IClient
}

func NewChatAdapter(name string, client chatcompletion.IClient) *ChatAdapter {
	return &ChatAdapter{name: name, client: client}
}

func (a *ChatAdapter) Name() string  { return a.name }
func (a *ChatAdapter) Model() string { return a.client.Model() }

func (a *ChatAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]chatcompletion.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, chatcompletion.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatcompletion.Message{Role: m.Role, Content: m.Text})
	}

	res, err := a.client.Complete(ctx, chatcompletion.Request{
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSONObject:  req.JSONMode,
	})
	if err != nil {
		return nil, err
	}
	return &Response{
		Text:         res.Text,
		FinishReason: res.FinishReason,
		ProviderName: a.name,
		ModelName:    res.Model,
		Usage: Usage{
			InputTokens:  res.Usage.PromptTokens,
			OutputTokens: res.Usage.CompletionTokens,
			TotalTokens:  res.Usage.TotalTokens,
		},
	}, nil
}
