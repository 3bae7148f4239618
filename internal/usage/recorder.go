package usage

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Recorder 記錄單次請求的 token 用量。
// 寫入失敗只記日誌，不影響請求本身的回應。
type Recorder struct {
	repo   *Repository
	logger *slog.Logger
}

// NewRecorder 建立用量記錄器。
func NewRecorder(repo *Repository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record 記錄一次請求的 token 用量。資料庫未啟用時為 no-op。
func (r *Recorder) Record(ctx context.Context, inputTokens int64, outputTokens int64) {
	if r == nil || r.repo == nil || !r.repo.Enabled() {
		return
	}
	if inputTokens <= 0 && outputTokens <= 0 {
		return
	}

	if err := r.repo.RecordUsage(ctx, inputTokens, outputTokens, 1, time.Time{}); err != nil {
		if errors.Is(err, ErrDisabled) {
			return
		}
		if r.logger != nil {
			r.logger.Warn("usage_db_save_failed", "err", err)
		}
	}
}
