package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/lcyeh/review-relay-go/internal/httperror"
)

// JSONRecovery 攔截 handler panic，記錄堆疊後回覆 JSON 格式的 500。
// 回應本文維持 error/detail 形狀，與其他錯誤路徑一致。
func JSONRecovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			if logger != nil {
				logger.Error("panic_recovered",
					"request_id", GetRequestID(c),
					"path", c.Request.URL.Path,
					"panic", fmt.Sprint(recovered),
					"stack", string(debug.Stack()),
				)
			}

			status, payload := httperror.Response(httperror.NewInternal(fmt.Sprint(recovered)))
			c.AbortWithStatusJSON(status, payload)
		}()

		c.Next()
	}
}
