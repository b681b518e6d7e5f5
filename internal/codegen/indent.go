package codegen

import "strings"

// IndentUnit 每一级缩进
const IndentUnit = "  "

// Indent 给每个非空行加上 level 级缩进
func Indent(text string, level int) string {
	if level <= 0 || text == "" {
		return text
	}
	prefix := strings.Repeat(IndentUnit, level)

	var sb strings.Builder
	sb.Grow(len(text) + strings.Count(text, "\n")*len(prefix) + len(prefix))
	for len(text) > 0 {
		line := text
		rest := ""
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line, rest = text[:i+1], text[i+1:]
		}
		if line != "\n" {
			sb.WriteString(prefix)
		}
		sb.WriteString(line)
		text = rest
	}
	return sb.String()
}
