package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lcyeh/review-relay-go/internal/config"
)

// ConfigResponse 是運行設定回應，不含任何金鑰內容。
type ConfigResponse struct {
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
	ContentMaxRunes int     `json:"content_max_runes"`
	APIKeyCount     int     `json:"api_key_count"`
	GuardEnabled    bool    `json:"guard_enabled"`
	UsageDBEnabled  bool    `json:"usage_db_enabled"`
	HTTP2Enabled    bool    `json:"http2_enabled"`
	TransportMode   string  `json:"transport_mode"`
}

// RegisterHealthRoutes 註冊狀態檢查與指標路由。
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config) {
	startedAt := time.Now()

	router.GET("/health", func(c *gin.Context) {
		// Liveness 不檢查外部依賴，資料庫掛掉不影響存活判定。
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	})

	router.GET("/health/config", func(c *gin.Context) {
		transportMode := "h1"
		if cfg.HTTP.HTTP2Enabled {
			transportMode = "h2c"
		}
		c.JSON(http.StatusOK, ConfigResponse{
			Model:           cfg.Gemini.Model,
			Temperature:     cfg.Gemini.Temperature,
			TimeoutSeconds:  cfg.Gemini.TimeoutSeconds,
			ContentMaxRunes: cfg.Review.ContentMaxRunes,
			APIKeyCount:     len(cfg.Gemini.APIKeys),
			GuardEnabled:    cfg.Guard.Enabled,
			UsageDBEnabled:  cfg.Database.Enabled,
			HTTP2Enabled:    cfg.HTTP.HTTP2Enabled,
			TransportMode:   transportMode,
		})
	})

	// Prometheus 指標
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
