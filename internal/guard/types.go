package guard

import "fmt"

// Match 是單一規則命中紀錄。
type Match struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

// Evaluation 是一次輸入檢查的結果。
type Evaluation struct {
	Score     float64 `json:"score"`
	Hits      []Match `json:"hits"`
	Threshold float64 `json:"threshold"`
}

// Malicious 回傳分數是否達到封鎖門檻。
func (e Evaluation) Malicious() bool {
	return e.Score >= e.Threshold
}

// BlockedError 表示輸入被注入防護封鎖。
type BlockedError struct {
	Score     float64
	Threshold float64
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("input blocked by injection guard (score=%.2f, threshold=%.2f)", e.Score, e.Threshold)
}
