package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/llm"
	"github.com/lcyeh/review-relay-go/internal/metrics"
	"github.com/lcyeh/review-relay-go/internal/usage"
)

// ErrMissingAPIKey 表示未設定 Gemini API 金鑰。
var ErrMissingAPIKey = errors.New("missing gemini api key")

// ShapeError 表示上游回應缺少預期的文字欄位，Raw 保留原始回應供診斷。
type ShapeError struct {
	Raw any
}

// Error 回傳錯誤訊息。
func (e *ShapeError) Error() string {
	return "unexpected gemini response shape"
}

// Request 是一次產生請求。
type Request struct {
	Prompt       string
	SystemPrompt string
	Model        string
}

// Client 負責呼叫 Gemini。每把金鑰對應一個延遲建立的 genai client，
// 多把金鑰時以輪替方式分散額度。
type Client struct {
	cfg           *config.Config
	metrics       *metrics.Store
	usageRecorder *usage.Recorder
	mu            sync.Mutex
	clients       map[string]*genai.Client
	apiKeys       []string
	apiKeyIdx     int
}

// NewClient 建立 Gemini 客戶端。
func NewClient(cfg *config.Config, metricsStore *metrics.Store, usageRecorder *usage.Recorder) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:           cfg,
		metrics:       metricsStore,
		usageRecorder: usageRecorder,
		clients:       make(map[string]*genai.Client),
		apiKeys:       cfg.Gemini.APIKeys,
	}, nil
}

// Generate 執行一次文字產生請求。不重試，任何失敗直接回傳。
func (c *Client) Generate(ctx context.Context, req Request) (llm.ChatResult, string, error) {
	start := time.Now()

	client, err := c.selectClient(ctx)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return llm.ChatResult{}, "", err
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Gemini.Model
	}

	genCfg := c.buildGenerateConfig(req.SystemPrompt)
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	// 失敗時原樣回傳錯誤，訊息會直接出現在回應本文裡。
	response, err := client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		return llm.ChatResult{}, model, err
	}

	text, ok := extractText(response)
	if !ok {
		c.metrics.RecordError(time.Since(start))
		return llm.ChatResult{}, model, &ShapeError{Raw: response}
	}

	resultUsage := extractUsage(response)
	c.metrics.RecordSuccess(time.Since(start), resultUsage)
	c.recordUsage(ctx, resultUsage)
	return llm.ChatResult{Text: text, Usage: resultUsage}, model, nil
}

func (c *Client) recordUsage(ctx context.Context, u llm.Usage) {
	if c.usageRecorder == nil {
		return
	}
	c.usageRecorder.Record(ctx, int64(u.InputTokens), int64(u.OutputTokens))
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) buildGenerateConfig(systemPrompt string) *genai.GenerateContentConfig {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(c.cfg.Gemini.Temperature)),
		MaxOutputTokens: int32(c.cfg.Gemini.MaxOutputTokens),
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return genCfg
}

func extractText(response *genai.GenerateContentResponse) (string, bool) {
	if response == nil || len(response.Candidates) == 0 {
		return "", false
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}

	text := ""
	for _, part := range content.Parts {
		if part == nil || part.Text == "" || part.Thought {
			continue
		}
		text += part.Text
	}
	if text == "" {
		return "", false
	}
	return text, true
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	meta := response.UsageMetadata
	return llm.Usage{
		InputTokens:  int(meta.PromptTokenCount),
		OutputTokens: int(meta.CandidatesTokenCount),
		TotalTokens:  int(meta.TotalTokenCount),
	}
}
