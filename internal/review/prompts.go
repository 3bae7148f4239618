package review

import (
	"embed"
	"fmt"

	"github.com/lcyeh/review-relay-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

// Prompts 是符合性判斷的提示樣板。
type Prompts struct {
	system string
	user   string
}

// NewPrompts 載入內嵌的提示樣板。
func NewPrompts() (*Prompts, error) {
	mapping, err := prompt.LoadYAMLMapping(promptsFS, "prompts/fulfillment.yml")
	if err != nil {
		return nil, fmt.Errorf("load fulfillment prompts: %w", err)
	}

	system, err := prompt.Field(mapping, "system", "fulfillment")
	if err != nil {
		return nil, err
	}
	user, err := prompt.Field(mapping, "user", "fulfillment")
	if err != nil {
		return nil, err
	}

	return &Prompts{system: system, user: user}, nil
}

// System 回傳系統提示。
func (p *Prompts) System() string {
	return p.system
}

// User 將原始陳情內容與輪次區塊嵌入使用者提示樣板。
func (p *Prompts) User(content string, roundsBlock string) (string, error) {
	rendered, err := prompt.FormatTemplate(p.user, map[string]string{
		"content": content,
		"rounds":  roundsBlock,
	})
	if err != nil {
		return "", fmt.Errorf("format fulfillment prompt: %w", err)
	}
	return rendered, nil
}
