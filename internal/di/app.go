package di

import (
	"log/slog"
	"net/http"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/usage"
)

// App 聚合應用程式元件。
type App struct {
	Server          *http.Server
	Logger          *slog.Logger
	Config          *config.Config
	UsageRepository *usage.Repository
	UsageRecorder   *usage.Recorder
}

// NewApp 建立 App。
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	usageRepository *usage.Repository,
	usageRecorder *usage.Recorder,
) *App {
	return &App{
		Server:          server,
		Logger:          logger,
		Config:          cfg,
		UsageRepository: usageRepository,
		UsageRecorder:   usageRecorder,
	}
}

// Close 釋放應用程式資源。
func (a *App) Close() {
	if a.UsageRepository != nil {
		a.UsageRepository.Close()
	}
}
