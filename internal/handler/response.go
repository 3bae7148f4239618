package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lcyeh/review-relay-go/internal/httperror"
	"github.com/lcyeh/review-relay-go/internal/review"
)

// writeError 以統一形狀輸出錯誤回應。
func writeError(c *gin.Context, err error) {
	status, payload := httperror.Response(err)
	c.JSON(status, payload)
}

// bindJSON 解析請求本文。本文不是合法 JSON 物件時直接回驗證錯誤，
// 訊息與欄位缺漏共用同一字面值。
func bindJSON(c *gin.Context, out *map[string]any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		writeError(c, httperror.NewInvalidInput(review.MsgEmptyFields))
		return false
	}
	return true
}
