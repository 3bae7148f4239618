package prompt

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// LoadYAMLMapping 載入 YAML 提示檔並展平為字串對照表。
func LoadYAMLMapping(fsys fs.FS, filePath string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt yaml: %w", err)
	}

	mapping := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			mapping[key] = ""
			continue
		}
		mapping[key] = fmt.Sprint(value)
	}
	return mapping, nil
}

// Field 從提示對照表取出必要欄位。
func Field(mapping map[string]string, key string, label string) (string, error) {
	value, ok := mapping[key]
	if !ok || value == "" {
		return "", fmt.Errorf("prompt field missing: %s.%s", label, key)
	}
	return value, nil
}
