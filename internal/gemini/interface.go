package gemini

import (
	"context"

	"github.com/lcyeh/review-relay-go/internal/llm"
)

// LLM 是上游模型客戶端介面，測試時可注入 mock 實作。
type LLM interface {
	// Generate 執行一次文字產生請求，回傳結果與實際使用的模型名稱。
	Generate(ctx context.Context, req Request) (llm.ChatResult, string, error)
}

// 編譯期確認 Client 實作 LLM 介面
var _ LLM = (*Client)(nil)
