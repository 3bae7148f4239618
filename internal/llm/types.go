package llm

// Usage 是 token 用量資訊。
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ChatResult 是模型產生的文字與用量。
type ChatResult struct {
	Text  string
	Usage Usage
}
