package response

// ErrorResp is the JSON body of every error response.
type ErrorResp struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

const (
	KindUnauthorized  = "unauthorized"
	KindInternalError = "internal_error"
	KindRateLimited   = "rate_limited"
)
