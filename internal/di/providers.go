package di

import (
	"fmt"
	"log/slog"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/logging"
)

// ProvideLogger 依設定建立 logger。
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
