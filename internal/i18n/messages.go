package i18n

// ============================================================================
// 消息 ID
// ============================================================================

// 词法分析
const (
	ErrUnexpectedChar = "lexer.unexpected_char"
	ErrIntOutOfRange  = "lexer.int_out_of_range"
	ErrInvalidFloat   = "lexer.invalid_float"
)

// 语法分析
const (
	ErrUnexpectedToken     = "parser.unexpected_token"
	ErrNoPrefixParse       = "parser.no_prefix_parse"
	ErrInvalidAssignTarget = "parser.invalid_assign_target"
	ErrNotCallable         = "parser.not_callable"
	ErrExprTooDeep         = "parser.expr_too_deep"
	ErrExpectedExpression  = "parser.expected_expression"
	ErrUnterminatedRegexp  = "parser.unterminated_regexp"
)

// 编译
const (
	ErrStatementAsExpr   = "compiler.statement_as_expr"
	ErrTypeMismatch      = "compiler.type_mismatch"
	ErrCompoundOperand   = "compiler.compound_operand"
	ErrNotAFunction      = "compiler.not_a_function"
	ErrUnknownMacro      = "compiler.unknown_macro"
	ErrMacroExpandFailed = "compiler.macro_expand_failed"
)

// 命令行与服务
const (
	MsgCompiled       = "cli.compiled"
	MsgNoErrors       = "cli.no_errors"
	MsgCacheHit       = "cli.cache_hit"
	MsgReplWelcome    = "repl.welcome"
	MsgReplGoodbye    = "repl.goodbye"
	MsgReplHelp       = "repl.help"
	MsgReplReset      = "repl.reset"
	MsgUsage          = "cli.usage"
	MsgNotFormatted   = "cli.not_formatted"
	ErrNoInput        = "cli.no_input"
	ErrReadFile       = "cli.read_file"
	ErrWriteFile      = "cli.write_file"
	ErrUnknownCommand = "cli.unknown_command"
)
