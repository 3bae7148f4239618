package review

import (
	"fmt"
	"strings"
)

// RenderRounds 將各輪次依輸入順序渲染為編號文字區塊，區塊間以空行分隔。
// 區塊格式為行為契約的一部分：
//
//	第{i}次回復內容:
//	{handling}
//	第{i}次審查意見:
//	{review}
func RenderRounds(rounds []RoundEntry) string {
	blocks := make([]string, 0, len(rounds))
	for i, round := range rounds {
		var builder strings.Builder
		fmt.Fprintf(&builder, "第%d次回復內容:\n%s\n", i+1, round.Handling)
		fmt.Fprintf(&builder, "第%d次審查意見:\n%s", i+1, round.Review)
		blocks = append(blocks, builder.String())
	}
	return strings.Join(blocks, "\n\n")
}
