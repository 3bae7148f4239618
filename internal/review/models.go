package review

import (
	"errors"

	"github.com/mitchellh/mapstructure"
)

// 對外回應訊息常數。字面值為行為契約，不可更動。
const (
	// MsgEmptyFields 是 content 或 rounds 缺漏時的驗證訊息。
	MsgEmptyFields = "content 與 rounds 欄位不可為空，且 rounds 必須為非空陣列"
	// MsgContentTooLong 是 content 超過長度上限時的驗證訊息。
	MsgContentTooLong = "content 太長"
	// MsgReplyNotJSON 是模型回覆完全不含 JSON 時的訊息。
	MsgReplyNotJSON = "AI 回覆非 JSON 格式"
	// MsgReplyParseFailed 是模型回覆含大括號但解析失敗時的訊息。
	MsgReplyParseFailed = "解析 AI 回覆 JSON 失敗"
)

// ErrInvalidRequest 表示請求缺少 content 或 rounds 非有效陣列。
var ErrInvalidRequest = errors.New("invalid review request")

// RoundEntry 是一輪「機關回復 + 審查意見」。順序即輪次，輪次編號從 1 起算。
type RoundEntry struct {
	Handling string `json:"handling"`
	Review   string `json:"review"`
}

// ReviewRequest 是一次審查符合性判斷請求。
type ReviewRequest struct {
	Content string
	Rounds  []RoundEntry
}

// Verdict 是模型判斷結果的型別化視圖，僅供記錄與統計，不做 schema 檢查。
type Verdict struct {
	Fulfill string `json:"fulfill"`
	Reason  string `json:"reason"`
}

// ParseRequest 從動態 JSON 物件解析請求。
// content 非空字串、rounds 為非空陣列是唯一要求；形狀不符一律視為同一種驗證錯誤，
// 與回覆訊息一對一對應。
func ParseRequest(payload map[string]any) (ReviewRequest, error) {
	content, ok := payload["content"].(string)
	if !ok || content == "" {
		return ReviewRequest{}, ErrInvalidRequest
	}

	rawRounds, ok := payload["rounds"].([]any)
	if !ok || len(rawRounds) == 0 {
		return ReviewRequest{}, ErrInvalidRequest
	}

	rounds := make([]RoundEntry, 0, len(rawRounds))
	for _, item := range rawRounds {
		entry, err := decodeRound(item)
		if err != nil {
			return ReviewRequest{}, ErrInvalidRequest
		}
		rounds = append(rounds, entry)
	}

	return ReviewRequest{Content: content, Rounds: rounds}, nil
}

// decodeRound 以寬鬆型別將單一輪次物件轉為 RoundEntry。
// 缺少 handling 或 review 時以空字串呈現。
func decodeRound(item any) (RoundEntry, error) {
	mapped, ok := item.(map[string]any)
	if !ok {
		return RoundEntry{}, ErrInvalidRequest
	}

	var entry RoundEntry
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &entry,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return RoundEntry{}, err
	}
	if err := decoder.Decode(mapped); err != nil {
		return RoundEntry{}, err
	}
	return entry, nil
}

// DecodeVerdict 以寬鬆型別將模型回覆物件轉為 Verdict，失敗時回傳零值。
// 僅供日誌與統計使用，回覆本文仍以原始物件透傳。
func DecodeVerdict(payload map[string]any) Verdict {
	var verdict Verdict
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &verdict,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Verdict{}
	}
	if err := decoder.Decode(payload); err != nil {
		return Verdict{}
	}
	return verdict
}
