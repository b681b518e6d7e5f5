package errors

import (
	"fmt"
	"strings"
)

// ============================================================================
// 诊断信息
// ============================================================================

// Diagnostic 一条与源码位置关联的诊断
//
// 位置使用字节偏移，行列号由 LineCol 按需计算。
type Diagnostic struct {
	Code    string // 错误码 (E0200)
	Level   Level  // 错误级别
	Message string // 主消息
	Offset  int    // 起始字节偏移
	End     int    // 结束字节偏移（不含），等于 Offset 时表示一个点
}

// Error 实现 error 接口
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d: %s[%s]: %s", d.Offset, d.Level, d.Code, d.Message)
}

// Format 以 file:line:col: level[CODE]: message 的形式输出
func (d Diagnostic) Format(file, source string) string {
	line, col := LineCol(source, d.Offset)
	return fmt.Sprintf("%s:%d:%d: %s[%s]: %s", file, line, col, d.Level, d.Code, d.Message)
}

// LineCol 把字节偏移转换为 1-based 的行号和列号（列按字节计算）
//
// 超出源码范围的偏移被截断到源码末尾。
func LineCol(source string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}

	prefix := source[:offset]
	line = strings.Count(prefix, "\n") + 1
	col = offset - (strings.LastIndexByte(prefix, '\n') + 1) + 1
	return line, col
}

// LineAt 返回第 line 行（1-based）的内容，不含换行符
func LineAt(source string, line int) string {
	if line < 1 {
		return ""
	}
	for i := 1; i < line; i++ {
		idx := strings.IndexByte(source, '\n')
		if idx < 0 {
			return ""
		}
		source = source[idx+1:]
	}
	if idx := strings.IndexByte(source, '\n'); idx >= 0 {
		source = source[:idx]
	}
	return strings.TrimSuffix(source, "\r")
}
