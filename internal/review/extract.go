package review

import (
	"strings"

	"github.com/goccy/go-json"
)

// ExtractObject 取出文字中第一個 '{' 到最後一個 '}' 的子字串。
// 模型常在 JSON 前後夾雜說明文字，這個貪婪擷取容忍前後綴；
// 已知弱點是文字中無關的大括號會擴大擷取範圍，為維持行為相容性保留原樣。
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseVerdict 將模型回覆文字整形為判斷結果物件。
// 解析成功時原樣透傳模型輸出；失敗時回傳帶有 error 與 raw 欄位的物件，
// 絕不代替模型補出判斷。
func ParseVerdict(text string) map[string]any {
	candidate, ok := ExtractObject(text)
	if !ok {
		return map[string]any{"error": MsgReplyNotJSON, "raw": text}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return map[string]any{"error": MsgReplyParseFailed, "raw": text}
	}
	return parsed
}

// IsParseFailure 回傳判斷結果是否為整形失敗物件。
func IsParseFailure(verdict map[string]any) bool {
	if verdict == nil {
		return true
	}
	message, ok := verdict["error"].(string)
	if !ok {
		return false
	}
	return message == MsgReplyNotJSON || message == MsgReplyParseFailed
}
