package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/gemini"
	"github.com/lcyeh/review-relay-go/internal/httperror"
	"github.com/lcyeh/review-relay-go/internal/llm"
	"github.com/lcyeh/review-relay-go/internal/metrics"
	reviewdomain "github.com/lcyeh/review-relay-go/internal/review"
)

type fakeLLM struct {
	calls    int
	reply    string
	err      error
	prompt   string
	system   string
	deadline bool
}

func (f *fakeLLM) Generate(ctx context.Context, req gemini.Request) (llm.ChatResult, string, error) {
	f.calls++
	f.prompt = req.Prompt
	f.system = req.SystemPrompt
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return llm.ChatResult{}, "test-model", f.err
	}
	return llm.ChatResult{Text: f.reply, Usage: llm.Usage{InputTokens: 3, OutputTokens: 2}}, "test-model", nil
}

func testService(t *testing.T, client gemini.LLM, apiKeys ...string) *Service {
	t.Helper()
	cfg := &config.Config{
		Gemini: config.GeminiConfig{
			APIKeys:        apiKeys,
			Model:          "gemini-2.5-flash",
			TimeoutSeconds: 180,
		},
		Review: config.ReviewConfig{ContentMaxRunes: 20000},
	}

	prompts, err := reviewdomain.NewPrompts()
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	store := metrics.NewStoreWithRegisterer(prometheus.NewRegistry())
	return New(cfg, client, nil, prompts, store, nil)
}

func validPayload() map[string]any {
	return map[string]any{
		"content": "陳情內容",
		"rounds": []any{
			map[string]any{"handling": "已改善", "review": "請補充照片"},
		},
	}
}

func TestEvaluateFulfillmentSuccess(t *testing.T) {
	client := &fakeLLM{reply: `{"fulfill":"是","reason":"已補充"}`}
	service := testService(t, client, "key")

	verdict, err := service.EvaluateFulfillment(context.Background(), "req-1", validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict["fulfill"] != "是" || verdict["reason"] != "已補充" {
		t.Fatalf("unexpected verdict: %v", verdict)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", client.calls)
	}
	if !client.deadline {
		t.Fatalf("expected call context to carry a deadline")
	}
	if client.system == "" {
		t.Fatalf("expected system prompt to be set")
	}
}

func TestEvaluateFulfillmentPromptContainsRounds(t *testing.T) {
	client := &fakeLLM{reply: `{"fulfill":"否","reason":"x"}`}
	service := testService(t, client, "key")

	payload := map[string]any{
		"content": "原始內容",
		"rounds": []any{
			map[string]any{"handling": "第一次回復", "review": "第一次意見"},
			map[string]any{"handling": "第二次回復", "review": "第二次意見"},
		},
	}
	if _, err := service.EvaluateFulfillment(context.Background(), "req-2", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"原始內容", "第1次回復內容:", "第2次審查意見:", "第二次意見"} {
		if !strings.Contains(client.prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, client.prompt)
		}
	}
}

func TestEvaluateFulfillmentInvalidPayload(t *testing.T) {
	client := &fakeLLM{}
	service := testService(t, client, "key")

	cases := []map[string]any{
		{},
		{"content": "", "rounds": []any{map[string]any{}}},
		{"content": "x", "rounds": []any{}},
		{"content": "x", "rounds": "oops"},
	}
	for _, payload := range cases {
		_, err := service.EvaluateFulfillment(context.Background(), "req-3", payload)
		apiErr := httperror.FromError(err)
		if apiErr == nil || apiErr.Status != 400 {
			t.Fatalf("expected 400, got %v", err)
		}
		if apiErr.Message != reviewdomain.MsgEmptyFields {
			t.Fatalf("unexpected message: %q", apiErr.Message)
		}
	}
	if client.calls != 0 {
		t.Fatalf("validation failures must not call the model, got %d calls", client.calls)
	}
}

func TestEvaluateFulfillmentMissingAPIKey(t *testing.T) {
	client := &fakeLLM{}
	service := testService(t, client)

	_, err := service.EvaluateFulfillment(context.Background(), "req-4", validPayload())
	apiErr := httperror.FromError(err)
	if apiErr == nil || apiErr.Status != 500 {
		t.Fatalf("expected 500, got %v", err)
	}
	if apiErr.Message != httperror.MsgMissingAPIKey {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if client.calls != 0 {
		t.Fatalf("missing key must not call the model")
	}
}

func TestEvaluateFulfillmentContentTooLong(t *testing.T) {
	client := &fakeLLM{}
	service := testService(t, client, "key")
	service.cfg.Review.ContentMaxRunes = 10

	payload := validPayload()
	payload["content"] = "這段中文內容超過十個字元的上限"
	_, err := service.EvaluateFulfillment(context.Background(), "req-5", payload)
	apiErr := httperror.FromError(err)
	if apiErr == nil || apiErr.Status != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
	if apiErr.Message != reviewdomain.MsgContentTooLong {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if client.calls != 0 {
		t.Fatalf("too-long content must not call the model")
	}
}

func TestEvaluateFulfillmentContentLimitCountsRunes(t *testing.T) {
	client := &fakeLLM{reply: `{"fulfill":"是","reason":"ok"}`}
	service := testService(t, client, "key")
	service.cfg.Review.ContentMaxRunes = 10

	// 十個中文字在位元組數上遠超 10，但字元數剛好在上限內。
	payload := validPayload()
	payload["content"] = "一二三四五六七八九十"
	if _, err := service.EvaluateFulfillment(context.Background(), "req-6", payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluateFulfillmentUpstreamError(t *testing.T) {
	client := &fakeLLM{err: errors.New("connect: connection refused")}
	service := testService(t, client, "key")

	_, err := service.EvaluateFulfillment(context.Background(), "req-7", validPayload())
	if err == nil {
		t.Fatalf("expected error")
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one call with no retry, got %d", client.calls)
	}
}

func TestEvaluateFulfillmentParseFailureStillReturned(t *testing.T) {
	client := &fakeLLM{reply: "我無法以 JSON 回答。"}
	service := testService(t, client, "key")

	verdict, err := service.EvaluateFulfillment(context.Background(), "req-8", validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict["error"] != reviewdomain.MsgReplyNotJSON {
		t.Fatalf("unexpected verdict: %v", verdict)
	}
	if verdict["raw"] != "我無法以 JSON 回答。" {
		t.Fatalf("expected raw reply text: %v", verdict)
	}
}

func TestEvaluateFulfillmentVerdictPassthrough(t *testing.T) {
	// 模型多給的欄位與缺少的欄位都原樣透傳，不做 schema 修補。
	client := &fakeLLM{reply: `{"fulfill":"是","extra":123}`}
	service := testService(t, client, "key")

	verdict, err := service.EvaluateFulfillment(context.Background(), "req-9", validPayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict["extra"] != float64(123) {
		t.Fatalf("extra field not passed through: %v", verdict)
	}
	if _, ok := verdict["reason"]; ok {
		t.Fatalf("missing field must stay missing: %v", verdict)
	}
}
