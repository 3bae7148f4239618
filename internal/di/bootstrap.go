package di

import (
	"fmt"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/gemini"
	"github.com/lcyeh/review-relay-go/internal/guard"
	"github.com/lcyeh/review-relay-go/internal/handler"
	"github.com/lcyeh/review-relay-go/internal/metrics"
	"github.com/lcyeh/review-relay-go/internal/review"
	"github.com/lcyeh/review-relay-go/internal/server"
	"github.com/lcyeh/review-relay-go/internal/usage"
	reviewusecase "github.com/lcyeh/review-relay-go/internal/usecase/review"
)

// InitializeApp 初始化應用程式依賴並回傳 App。
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()

	usageRepository := usage.NewRepository(cfg, logger)
	usageRecorder := usage.NewRecorder(usageRepository, logger)

	geminiClient, err := gemini.NewClient(cfg, metricsStore, usageRecorder)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	injectionGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}

	prompts, err := review.NewPrompts()
	if err != nil {
		return nil, fmt.Errorf("review prompts: %w", err)
	}

	reviewService := reviewusecase.New(cfg, geminiClient, injectionGuard, prompts, metricsStore, logger)
	reviewHandler := handler.NewReviewHandler(cfg, reviewService, metricsStore, logger)
	usageHandler := handler.NewUsageHandler(cfg, usageRepository, logger)

	router := handler.NewRouter(cfg, logger, reviewHandler, usageHandler)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, usageRepository, usageRecorder), nil
}
