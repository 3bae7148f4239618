package usage

import "time"

// TokenUsage 是以日為粒度的 token 用量彙總資料列。
type TokenUsage struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UsageDate    time.Time `gorm:"column:usage_date;type:date"`
	InputTokens  int64     `gorm:"column:input_tokens"`
	OutputTokens int64     `gorm:"column:output_tokens"`
	RequestCount int64     `gorm:"column:request_count"`
	Version      int64     `gorm:"column:version"`
}

// TableName 回傳 GORM 使用的資料表名稱。
func (TokenUsage) TableName() string {
	return "token_usage"
}

// DailyUsage 是查詢 API 用的日用量檢視。
type DailyUsage struct {
	UsageDate    time.Time `json:"usage_date"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	RequestCount int64     `json:"request_count"`
}

// TotalTokens 回傳輸入加輸出的 token 合計。
func (d DailyUsage) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens
}
