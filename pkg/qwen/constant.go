package qwen

const (
	DefaultModel   = "qwen-plus"
	DefaultBaseURL = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"
)
