package llmprovider

import "context"

// Provider is one LLM backend behind the manager.
type Provider interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// Name is the config name, e.g. "qwen" or "gemini".
	Name() string
	Model() string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is the provider-neutral generation request.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64 // sent as is, zero included
	MaxTokens   int
	JSONMode    bool // ask for a bare JSON document
}

type Message struct {
	Role string
	Text string
}

type Response struct {
	Text         string
	FinishReason string
	ProviderName string
	ModelName    string
	Usage        Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
