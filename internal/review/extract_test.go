package review

import "testing"

func TestParseVerdictRoundTrip(t *testing.T) {
	verdict := ParseVerdict(`{"fulfill":"是","reason":"ok"}`)
	if verdict["fulfill"] != "是" || verdict["reason"] != "ok" {
		t.Fatalf("unexpected verdict: %v", verdict)
	}
}

func TestParseVerdictWithSurroundingProse(t *testing.T) {
	verdict := ParseVerdict(`Here is my answer: {"fulfill":"否","reason":"x"} thanks`)
	if verdict["fulfill"] != "否" || verdict["reason"] != "x" {
		t.Fatalf("unexpected verdict: %v", verdict)
	}
	if _, ok := verdict["error"]; ok {
		t.Fatalf("unexpected error field: %v", verdict)
	}
}

func TestParseVerdictNoBraces(t *testing.T) {
	text := "抱歉，我無法判斷。"
	verdict := ParseVerdict(text)
	if verdict["error"] != MsgReplyNotJSON {
		t.Fatalf("unexpected error: %v", verdict)
	}
	if verdict["raw"] != text {
		t.Fatalf("expected raw to carry full text: %v", verdict)
	}
	if !IsParseFailure(verdict) {
		t.Fatalf("expected parse failure")
	}
}

func TestParseVerdictMalformedJSON(t *testing.T) {
	text := `result: {"fulfill": }`
	verdict := ParseVerdict(text)
	if verdict["error"] != MsgReplyParseFailed {
		t.Fatalf("unexpected error: %v", verdict)
	}
	if verdict["raw"] != text {
		t.Fatalf("expected raw to carry full text: %v", verdict)
	}
}

func TestParseVerdictGreedyExtraction(t *testing.T) {
	// 貪婪擷取：無關的大括號會讓範圍擴大到解析失敗，行為保留原樣。
	verdict := ParseVerdict(`{a} {"fulfill":"是"} {b}`)
	if verdict["error"] != MsgReplyParseFailed {
		t.Fatalf("expected greedy extraction to fail parsing: %v", verdict)
	}
}

func TestExtractObject(t *testing.T) {
	if _, ok := ExtractObject("no braces"); ok {
		t.Fatalf("expected no object")
	}
	if _, ok := ExtractObject("only open {"); ok {
		t.Fatalf("expected no object for unclosed brace")
	}
	got, ok := ExtractObject(`prefix {"k":1} suffix`)
	if !ok || got != `{"k":1}` {
		t.Fatalf("unexpected extraction: %q", got)
	}
}

func TestIsParseFailure(t *testing.T) {
	if IsParseFailure(map[string]any{"fulfill": "是"}) {
		t.Fatalf("valid verdict flagged as failure")
	}
	// 模型自己輸出 error 欄位時不視為整形失敗。
	if IsParseFailure(map[string]any{"error": "模型自述"}) {
		t.Fatalf("model-authored error field flagged as failure")
	}
	if !IsParseFailure(nil) {
		t.Fatalf("nil verdict should count as failure")
	}
}
