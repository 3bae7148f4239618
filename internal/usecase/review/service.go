package review

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/gemini"
	"github.com/lcyeh/review-relay-go/internal/guard"
	"github.com/lcyeh/review-relay-go/internal/httperror"
	"github.com/lcyeh/review-relay-go/internal/metrics"
	reviewdomain "github.com/lcyeh/review-relay-go/internal/review"
)

// Service 實作審查符合性判斷流程：驗證請求、組提示、
// 呼叫一次模型、整形回覆。
type Service struct {
	cfg     *config.Config
	client  gemini.LLM
	guard   guard.Guard
	prompts *reviewdomain.Prompts
	metrics *metrics.Store
	logger  *slog.Logger
}

// New 建立審查服務。
func New(
	cfg *config.Config,
	client gemini.LLM,
	injectionGuard guard.Guard,
	prompts *reviewdomain.Prompts,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:     cfg,
		client:  client,
		guard:   injectionGuard,
		prompts: prompts,
		metrics: metricsStore,
		logger:  logger,
	}
}

// EvaluateFulfillment 執行一次符合性判斷。
// 驗證全部通過才會呼叫模型；模型只呼叫一次，失敗不重試。
// 回傳值是透傳給呼叫端的 JSON 物件。
func (s *Service) EvaluateFulfillment(ctx context.Context, requestID string, payload map[string]any) (map[string]any, error) {
	req, err := reviewdomain.ParseRequest(payload)
	if err != nil {
		return nil, httperror.NewInvalidInput(reviewdomain.MsgEmptyFields)
	}

	// 金鑰檢查先於長度檢查，缺金鑰時不洩漏其他驗證結果。
	if s.cfg.Gemini.PrimaryKey() == "" {
		return nil, httperror.NewMissingAPIKey()
	}

	if utf8.RuneCountInString(req.Content) > s.cfg.Review.ContentMaxRunes {
		return nil, httperror.NewInvalidInput(reviewdomain.MsgContentTooLong)
	}

	if s.guard != nil {
		if err := s.guard.EnsureSafe(req.Content); err != nil {
			s.logger.Warn("review_input_blocked", "request_id", requestID, "err", err)
			return nil, err
		}
	}

	roundsBlock := reviewdomain.RenderRounds(req.Rounds)
	userPrompt, err := s.prompts.User(req.Content, roundsBlock)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(s.cfg.Gemini.TimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, model, err := s.client.Generate(callCtx, gemini.Request{
		Prompt:       userPrompt,
		SystemPrompt: s.prompts.System(),
	})
	if err != nil {
		s.logger.Error("review_generate_failed", "request_id", requestID, "model", model, "err", err)
		return nil, err
	}

	verdict := reviewdomain.ParseVerdict(result.Text)
	if reviewdomain.IsParseFailure(verdict) {
		if s.metrics != nil {
			s.metrics.RecordParseFailure()
		}
		s.logger.Warn("review_reply_unparsable",
			"request_id", requestID,
			"model", model,
			"reply_len", len(result.Text),
		)
		return verdict, nil
	}

	decoded := reviewdomain.DecodeVerdict(verdict)
	s.logger.Info("review_verdict",
		"request_id", requestID,
		"model", model,
		"fulfill", decoded.Fulfill,
		"rounds", len(req.Rounds),
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
	)
	return verdict, nil
}
