package i18n

var messagesZH = map[string]string{
	// ========== 词法分析 ==========
	ErrUnexpectedChar: "意外字符 '%c'",
	ErrIntOutOfRange:  "整数字面量 %s 超出范围",
	ErrInvalidFloat:   "无效的浮点数字面量: %s",

	// ========== 语法分析 ==========
	ErrUnexpectedToken:     "期望 %s，实际为 %s",
	ErrNoPrefixParse:       "表达式不能以 %s 开头",
	ErrInvalidAssignTarget: "无效的赋值目标",
	ErrNotCallable:         "只有标识符和成员访问表达式可以被调用",
	ErrExprTooDeep:         "表达式嵌套超过 %d 层",
	ErrExpectedExpression:  "'%s' 之后需要表达式",
	ErrUnterminatedRegexp:  "未结束的正则表达式",

	// ========== 编译 ==========
	ErrStatementAsExpr:   "'%s' 不能作为表达式使用",
	ErrTypeMismatch:      "不能将 %[1]s 赋值给类型为 %[3]s 的 '%[2]s'",
	ErrCompoundOperand:   "运算符 '%[1]s' 不能用于类型为 %[3]s 的 '%[2]s'",
	ErrNotAFunction:      "'%s' 的类型为 %s，不能被调用",
	ErrUnknownMacro:      "未知的宏 '%s!'",
	ErrMacroExpandFailed: "宏 '%s!' 无法使用给定参数展开",

	// ========== 命令行 ==========
	MsgCompiled:       "已编译 %s -> %s",
	MsgNoErrors:       "%s: 没有错误",
	MsgCacheHit:       "%s: 已是最新",
	MsgReplWelcome:    "uwu repl，输入表达式后回车（ctrl-d 退出）",
	MsgReplGoodbye:    "再见",
	MsgReplHelp:       ":help  显示帮助\n:reset 清除所有声明\n:quit  退出",
	MsgReplReset:      "环境已清空",
	MsgUsage:          "用法: uwu <build|check|fmt|repl|version> [参数] [文件]",
	MsgNotFormatted:   "%s: 未格式化",
	ErrNoInput:        "未指定输入文件",
	ErrReadFile:       "无法读取 %s: %v",
	ErrWriteFile:      "无法写入 %s: %v",
	ErrUnknownCommand: "未知命令 '%s'",
}
