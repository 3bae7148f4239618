package prompt

import (
	"testing"
	"testing/fstest"
)

func TestLoadYAMLMapping(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/test.yml": {Data: []byte("system: 系統提示\nuser: |\n  第一行\n  第二行\n")},
	}

	mapping, err := LoadYAMLMapping(fsys, "prompts/test.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mapping["system"] != "系統提示" {
		t.Fatalf("unexpected system prompt: %q", mapping["system"])
	}
	if mapping["user"] != "第一行\n第二行\n" {
		t.Fatalf("unexpected user prompt: %q", mapping["user"])
	}
}

func TestLoadYAMLMappingInvalid(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/bad.yml": {Data: []byte("not: [valid")},
	}
	if _, err := LoadYAMLMapping(fsys, "prompts/bad.yml"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadYAMLMapping(fsys, "prompts/none.yml"); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestField(t *testing.T) {
	mapping := map[string]string{"user": "value"}
	if _, err := Field(mapping, "system", "fulfillment"); err == nil {
		t.Fatalf("expected error for missing field")
	}
	value, err := Field(mapping, "user", "fulfillment")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "value" {
		t.Fatalf("unexpected value: %q", value)
	}
}
