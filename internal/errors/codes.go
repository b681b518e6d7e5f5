// Package errors 提供 uwu 编译器的错误码与诊断信息
package errors

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	default:
		return "unknown"
	}
}

// ============================================================================
// 编译器错误码 (E 开头)
// ============================================================================

const (
	// E0001-E0099: 语法错误
	E0001 = "E0001" // 语法错误
	E0002 = "E0002" // 意外的字符
	E0005 = "E0005" // 无效的数字
	E0007 = "E0007" // 意外的 token
	E0008 = "E0008" // 语句不能作为表达式
	E0009 = "E0009" // 嵌套过深

	// E0200-E0299: 类型错误
	E0200 = "E0200" // 类型不匹配
	E0205 = "E0205" // 复合赋值的操作数类型不兼容

	// E0300-E0399: 函数错误
	E0300 = "E0300" // 调用的不是函数

	// E0400-E0499: 宏错误
	E0400 = "E0400" // 未知的宏
	E0401 = "E0401" // 宏展开失败
)

// ============================================================================
// 错误码信息
// ============================================================================

// ErrorInfo 错误码信息
type ErrorInfo struct {
	Code      string // 错误码
	Level     Level  // 错误级别
	MessageID string // i18n 消息 ID
	Category  string // 错误分类
}

var compilerErrors = map[string]ErrorInfo{
	E0001: {E0001, LevelError, "parser.unexpected_token", "syntax"},
	E0002: {E0002, LevelError, "lexer.unexpected_char", "syntax"},
	E0005: {E0005, LevelError, "lexer.int_out_of_range", "syntax"},
	E0007: {E0007, LevelError, "parser.unexpected_token", "syntax"},
	E0008: {E0008, LevelError, "compiler.statement_as_expr", "syntax"},
	E0009: {E0009, LevelError, "parser.expr_too_deep", "syntax"},

	E0200: {E0200, LevelError, "compiler.type_mismatch", "type"},
	E0205: {E0205, LevelError, "compiler.compound_operand", "type"},

	E0300: {E0300, LevelError, "compiler.not_a_function", "function"},

	E0400: {E0400, LevelError, "compiler.unknown_macro", "macro"},
	E0401: {E0401, LevelError, "compiler.macro_expand_failed", "macro"},
}

// GetCompilerErrorInfo 获取编译器错误信息
func GetCompilerErrorInfo(code string) (ErrorInfo, bool) {
	info, ok := compilerErrors[code]
	return info, ok
}

// IsCompilerError 检查是否为编译器错误码
func IsCompilerError(code string) bool {
	_, ok := compilerErrors[code]
	return ok
}
