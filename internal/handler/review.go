package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/metrics"
	"github.com/lcyeh/review-relay-go/internal/middleware"
	reviewusecase "github.com/lcyeh/review-relay-go/internal/usecase/review"
)

// ReviewHandler 是審查符合性判斷 API 的 HTTP 處理器。
type ReviewHandler struct {
	cfg     *config.Config
	service *reviewusecase.Service
	metrics *metrics.Store
	logger  *slog.Logger
}

// NewReviewHandler 建立審查處理器。
func NewReviewHandler(
	cfg *config.Config,
	service *reviewusecase.Service,
	metricsStore *metrics.Store,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		cfg:     cfg,
		service: service,
		metrics: metricsStore,
		logger:  logger,
	}
}

// RegisterRoutes 註冊審查路由。
func (h *ReviewHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/gemini", h.handleEvaluate)
	router.GET("/api/gemini/metrics", h.handleMetrics)
}

// handleEvaluate 處理一次符合性判斷請求。
// 請求本文以動態物件接收，欄位形狀由 usecase 層驗證，
// 成功與整形失敗都回 200，錯誤依分類回 4xx/5xx。
func (h *ReviewHandler) handleEvaluate(c *gin.Context) {
	var payload map[string]any
	if !bindJSON(c, &payload) {
		return
	}

	requestID := middleware.GetRequestID(c)
	startedAt := time.Now()

	verdict, err := h.service.EvaluateFulfillment(c.Request.Context(), requestID, payload)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.logger != nil {
		h.logger.Debug("review_request_done",
			"request_id", requestID,
			"latency", time.Since(startedAt),
		)
	}
	c.JSON(http.StatusOK, verdict)
}

// handleMetrics 回傳累計呼叫統計的 JSON 快照。
func (h *ReviewHandler) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
