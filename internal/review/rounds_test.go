package review

import (
	"strings"
	"testing"
)

func TestRenderRoundsSingle(t *testing.T) {
	rendered := RenderRounds([]RoundEntry{{Handling: "A", Review: "B"}})

	if !strings.Contains(rendered, "第1次回復內容:\nA") {
		t.Fatalf("missing handling block: %q", rendered)
	}
	if !strings.Contains(rendered, "第1次審查意見:\nB") {
		t.Fatalf("missing review block: %q", rendered)
	}
}

func TestRenderRoundsOrderAndSeparator(t *testing.T) {
	rendered := RenderRounds([]RoundEntry{
		{Handling: "第一次回復", Review: "第一次意見"},
		{Handling: "第二次回復", Review: "第二次意見"},
	})

	first := strings.Index(rendered, "第1次回復內容:")
	second := strings.Index(rendered, "第2次回復內容:")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("blocks out of order: %q", rendered)
	}

	if !strings.Contains(rendered, "第一次意見\n\n第2次回復內容:") {
		t.Fatalf("blocks not separated by blank line: %q", rendered)
	}
}

func TestRenderRoundsEmptyFields(t *testing.T) {
	rendered := RenderRounds([]RoundEntry{{}})
	if !strings.Contains(rendered, "第1次回復內容:\n\n第1次審查意見:\n") {
		t.Fatalf("unexpected rendering of empty round: %q", rendered)
	}
}
