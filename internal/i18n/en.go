package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar: "unexpected character '%c'",
	ErrIntOutOfRange:  "integer literal %s is out of range",
	ErrInvalidFloat:   "invalid float literal: %s",

	// ========== Parser ==========
	ErrUnexpectedToken:     "expected %s, got %s",
	ErrNoPrefixParse:       "unexpected token %s at start of expression",
	ErrInvalidAssignTarget: "invalid assignment target",
	ErrNotCallable:         "only identifiers and member accessors can be called",
	ErrExprTooDeep:         "expression nesting exceeds %d levels",
	ErrExpectedExpression:  "expected expression after '%s'",
	ErrUnterminatedRegexp:  "unterminated regular expression",

	// ========== Compiler ==========
	ErrStatementAsExpr:   "'%s' cannot be used as an expression",
	ErrTypeMismatch:      "cannot assign %s to '%s' of type %s",
	ErrCompoundOperand:   "operator '%s' cannot be applied to '%s' of type %s",
	ErrNotAFunction:      "'%s' is of type %s and cannot be called",
	ErrUnknownMacro:      "unknown macro '%s!'",
	ErrMacroExpandFailed: "macro '%s!' could not be expanded with the given arguments",

	// ========== CLI ==========
	MsgCompiled:       "compiled %s -> %s",
	MsgNoErrors:       "%s: no errors",
	MsgCacheHit:       "%s: up to date",
	MsgReplWelcome:    "uwu repl, type an expression and press enter (ctrl-d to quit)",
	MsgReplGoodbye:    "bye",
	MsgReplHelp:       ":help  show this help\n:reset forget all declarations\n:quit  leave the repl",
	MsgReplReset:      "environment cleared",
	MsgUsage:          "usage: uwu <build|check|fmt|repl|version> [flags] [file]",
	MsgNotFormatted:   "%s: not formatted",
	ErrNoInput:        "no input file",
	ErrReadFile:       "cannot read %s: %v",
	ErrWriteFile:      "cannot write %s: %v",
	ErrUnknownCommand: "unknown command '%s'",
}
