package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/lcyeh/review-relay-go/internal/config"
	"github.com/lcyeh/review-relay-go/internal/httperror"
	"github.com/lcyeh/review-relay-go/internal/usage"
)

// recentQuery 是 /api/usage/recent 的查詢參數。
type recentQuery struct {
	Days int `form:"days,default=7" binding:"min=1,max=365"`
}

// DailyUsageResponse 是日用量回應。
type DailyUsageResponse struct {
	UsageDate    string `json:"usage_date"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
	Model        string `json:"model"`
}

// UsageListResponse 是多日用量回應。
type UsageListResponse struct {
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalRequestCount int64                `json:"total_request_count"`
	Model             string               `json:"model"`
}

// UsageHandler 是用量查詢 API 的 HTTP 處理器。
type UsageHandler struct {
	cfg    *config.Config
	repo   *usage.Repository
	logger *slog.Logger
}

// NewUsageHandler 建立用量處理器。
func NewUsageHandler(cfg *config.Config, repo *usage.Repository, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
	}
}

// RegisterRoutes 註冊用量路由。
func (h *UsageHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/usage")
	group.GET("/daily", h.handleDaily)
	group.GET("/recent", h.handleRecent)
}

func (h *UsageHandler) handleDaily(c *gin.Context) {
	row, err := h.repo.GetDailyUsage(c.Request.Context(), time.Time{})
	if err != nil {
		h.writeUsageError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildDailyResponse(row))
}

func (h *UsageHandler) handleRecent(c *gin.Context) {
	var query recentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		// 型別錯誤（非整數）不會產生 validator 錯誤，補上固定訊息。
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			err = httperror.NewInvalidInput("days 必須為 1 到 365 的整數")
		}
		writeError(c, err)
		return
	}

	rows, err := h.repo.GetRecentUsage(c.Request.Context(), query.Days)
	if err != nil {
		h.writeUsageError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.buildListResponse(rows))
}

func (h *UsageHandler) writeUsageError(c *gin.Context, err error) {
	if errors.Is(err, usage.ErrDisabled) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "用量統計未啟用"})
		return
	}
	if h.logger != nil {
		h.logger.Error("usage_query_failed", "err", err)
	}
	writeError(c, err)
}

func (h *UsageHandler) buildDailyResponse(row *usage.DailyUsage) DailyUsageResponse {
	if row == nil {
		return DailyUsageResponse{
			UsageDate: time.Now().Format("2006-01-02"),
			Model:     h.cfg.Gemini.Model,
		}
	}

	return DailyUsageResponse{
		UsageDate:    row.UsageDate.Format("2006-01-02"),
		InputTokens:  row.InputTokens,
		OutputTokens: row.OutputTokens,
		TotalTokens:  row.TotalTokens(),
		RequestCount: row.RequestCount,
		Model:        h.cfg.Gemini.Model,
	}
}

func (h *UsageHandler) buildListResponse(rows []usage.DailyUsage) UsageListResponse {
	response := UsageListResponse{
		Usages: make([]DailyUsageResponse, 0, len(rows)),
		Model:  h.cfg.Gemini.Model,
	}
	for _, row := range rows {
		response.Usages = append(response.Usages, DailyUsageResponse{
			UsageDate:    row.UsageDate.Format("2006-01-02"),
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			TotalTokens:  row.TotalTokens(),
			RequestCount: row.RequestCount,
			Model:        h.cfg.Gemini.Model,
		})
		response.TotalInputTokens += row.InputTokens
		response.TotalOutputTokens += row.OutputTokens
		response.TotalTokens += row.TotalTokens()
		response.TotalRequestCount += row.RequestCount
	}
	return response
}
