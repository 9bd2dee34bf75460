package retrieval

import (
	"fmt"
	"strings"
)

// BuildPromptContext 将召回结果格式化为可直接注入 Prompt 的块。
// 约束：尽量短，避免把 score 等调试信息塞进 Prompt。
func BuildPromptContext(segments []Segment, maxRunesPerSegment int) string {
	if len(segments) == 0 {
		return ""
	}
	if maxRunesPerSegment <= 0 {
		maxRunesPerSegment = 600
	}

	lines := make([]string, 0, len(segments)+1)
	for i, s := range segments {
		txt := compactOneLine(s.Text)
		txt = truncateRunes(txt, maxRunesPerSegment)
		if strings.TrimSpace(txt) == "" {
			continue
		}
		src := strings.TrimSpace(s.Source)
		if src == "" {
			src = "unknown"
		}
		lines = append(lines, fmt.Sprintf("[%d] (%s) %s", i+1, src, txt))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func compactOneLine(s string) string {
	out := strings.ReplaceAll(s, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = strings.ReplaceAll(out, "\n", " ")
	out = strings.TrimSpace(out)
	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}
	return out
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
