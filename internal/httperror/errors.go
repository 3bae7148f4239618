package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"github.com/lcyeh/review-relay-go/internal/gemini"
	"github.com/lcyeh/review-relay-go/internal/guard"
)

// 錯誤訊息常數。回應內容為對外契約，不可更動字面值。
const (
	// MsgMissingAPIKey 是未設定上游金鑰時的訊息。
	MsgMissingAPIKey = "Server 未設定 API key"
	// MsgInternal 是未預期錯誤的訊息。
	MsgInternal = "Internal Server Error"
)

// Error 是內部標準錯誤型別，攜帶 HTTP 狀態碼與回應欄位。
type Error struct {
	Status  int
	Message string
	Raw     any
	Detail  string
}

// Error 回傳錯誤訊息。
func (e *Error) Error() string {
	return e.Message
}

// ErrorResponse 是錯誤回應本文。所有失敗路徑都以此形狀輸出 JSON。
type ErrorResponse struct {
	Error  string `json:"error"`
	Raw    any    `json:"raw,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Response 將錯誤轉換為 HTTP 狀態碼與回應本文。
func Response(err error) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternal("unknown error")
	}
	return apiErr.Status, ErrorResponse{
		Error:  apiErr.Message,
		Raw:    apiErr.Raw,
		Detail: apiErr.Detail,
	}
}

// FromError 將任意錯誤轉換為內部錯誤型別。
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var blocked *guard.BlockedError
	if errors.As(err, &blocked) {
		return NewInvalidInput(blocked.Error())
	}

	if errors.Is(err, gemini.ErrMissingAPIKey) {
		return NewMissingAPIKey()
	}

	var shapeErr *gemini.ShapeError
	if errors.As(err, &shapeErr) {
		return NewUpstreamShape(shapeErr.Raw)
	}

	// 上游回了 HTTP 錯誤回應（429、500 等）時固定以 502 轉送。
	var upstream genai.APIError
	if errors.As(err, &upstream) {
		return NewUpstreamHTTP(upstream)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewInvalidInput(err.Error())
	}

	// 逾時或連線失敗等沒有取得 HTTP 回應的情況。
	if errors.Is(err, context.DeadlineExceeded) {
		return NewUpstreamCall(err)
	}

	return NewUpstreamCall(err)
}

// NewInvalidInput 建立輸入驗證錯誤 (400)。
func NewInvalidInput(message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// NewUnauthorized 建立 API 金鑰驗證失敗錯誤 (401)。
func NewUnauthorized() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	}
}

// NewMissingAPIKey 建立缺少上游金鑰錯誤 (500)。
func NewMissingAPIKey() *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: MsgMissingAPIKey,
	}
}

// NewUpstreamShape 建立上游回應形狀異常錯誤 (502)，raw 保留原始內容供診斷。
func NewUpstreamShape(raw any) *Error {
	return &Error{
		Status:  http.StatusBadGateway,
		Message: "Gemini 回應格式異常",
		Raw:     raw,
	}
}

// NewUpstreamHTTP 建立上游 HTTP 錯誤 (502)。
func NewUpstreamHTTP(upstream genai.APIError) *Error {
	raw := map[string]any{
		"code":    upstream.Code,
		"status":  upstream.Status,
		"message": upstream.Message,
	}
	if len(upstream.Details) > 0 {
		raw["details"] = upstream.Details
	}
	return &Error{
		Status:  http.StatusBadGateway,
		Message: fmt.Sprintf("Google API %d", upstream.Code),
		Raw:     raw,
	}
}

// NewUpstreamCall 建立未取得上游回應的呼叫錯誤 (500)。
func NewUpstreamCall(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// NewInternal 建立未預期錯誤 (500)，detail 帶出原始訊息。
func NewInternal(detail string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: MsgInternal,
		Detail:  detail,
	}
}
