package guard

// Guard 是輸入檢查介面，測試時可注入替身。
type Guard interface {
	// Evaluate 評估輸入文字
	Evaluate(input string) Evaluation

	// EnsureSafe 危險輸入以錯誤回報
	EnsureSafe(input string) error

	// IsMalicious 輸入是否危險
	IsMalicious(input string) bool
}

var _ Guard = (*InjectionGuard)(nil)
