package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/middleware"
)

// NewRouter 組裝 HTTP 路由與中介層。
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	reviewHandler *ReviewHandler,
	usageHandler *UsageHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.JSONRecovery(logger),
		middleware.CORS(cfg),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.APIKeyAuth(cfg),
	)

	RegisterHealthRoutes(router, cfg)
	reviewHandler.RegisterRoutes(router)
	usageHandler.RegisterRoutes(router)

	// 未註冊路徑也回 JSON，而不是 gin 預設的純文字 404。
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
