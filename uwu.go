// Package uwu 是 uwu 编译器的公共入口
//
// 编译流水线：词法分析 → 语法分析 → 语法树 → 宏展开 / 类型环境 → 代码生成。
// 每次编译相互独立；同一个 Session 只能在一个 goroutine 中使用。
package uwu

import (
	"unicode/utf8"

	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/compiler"
	"github.com/useverto/uwu/internal/errors"
	"github.com/useverto/uwu/internal/lexer"
	"github.com/useverto/uwu/internal/parser"
	"github.com/useverto/uwu/internal/token"
)

// Version 编译器版本
const Version = compiler.Version

// Tokenize 返回按需产生 token 的函数，输入耗尽后始终返回 EOF
func Tokenize(source string) func() token.Token {
	return lexer.New(source).NextToken
}

// Tokens 扫描全部 token，结果以 EOF 结尾
func Tokens(source string) []token.Token {
	next := Tokenize(source)
	var tokens []token.Token
	for {
		tok := next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

// Parse 解析源代码，返回尽力构建的程序以及全部语法错误
func Parse(source string) (*ast.Program, parser.Errors) {
	return parser.Parse(source)
}

// Compile 编译源代码
//
// 有语法错误时不生成代码，返回的 error 合并了所有语法错误；
// 否则返回第一个编译错误（*compiler.Error）。
func Compile(source string) (string, error) {
	program, errs := parser.Parse(source)
	if len(errs) > 0 {
		return "", errs.Err()
	}
	return CompileProgram(program)
}

// CompileProgram 编译已解析的程序
func CompileProgram(program *ast.Program) (string, error) {
	return compiler.Compile(program)
}

// Check 编译源代码，只返回诊断
func Check(source string) []errors.Diagnostic {
	_, diags := NewSession().Compile(source)
	return diags
}

// ============================================================================
// Session
// ============================================================================

// Session 在多次编译之间共享类型环境（REPL 使用）
type Session struct {
	compiler *compiler.Compiler
}

// NewSession 创建会话
func NewSession() *Session {
	return &Session{compiler: compiler.New()}
}

// Reset 丢弃之前的所有声明
func (s *Session) Reset() {
	s.compiler = compiler.New()
}

// Compile 编译源代码
//
// 返回:
//   - string: 生成的 JavaScript，有诊断时为空
//   - []errors.Diagnostic: 全部语法错误，或一个编译错误
func (s *Session) Compile(source string) (string, []errors.Diagnostic) {
	program, errs := parser.Parse(source)
	if len(errs) > 0 {
		return "", ParseDiagnostics(errs)
	}
	out, err := s.compiler.Compile(program)
	if err != nil {
		return "", []errors.Diagnostic{CompileDiagnostic(err)}
	}
	return out, nil
}

// ============================================================================
// 诊断转换
// ============================================================================

// ParseDiagnostics 把语法错误转换为诊断
func ParseDiagnostics(errs parser.Errors) []errors.Diagnostic {
	diags := make([]errors.Diagnostic, len(errs))
	for i, e := range errs {
		diags[i] = errors.Diagnostic{
			Code:    parseErrorCode(e.Token),
			Level:   errors.LevelError,
			Message: e.Message,
			Offset:  e.Token.Offset,
			End:     e.Token.Offset + len(e.Token.Literal),
		}
	}
	return diags
}

// parseErrorCode 非法 token 按来源区分字符错误和数字错误
func parseErrorCode(tok token.Token) string {
	if tok.Type != token.ILLEGAL {
		return errors.E0007
	}
	if r, _ := utf8.DecodeRuneInString(tok.Literal); r >= '0' && r <= '9' {
		return errors.E0005
	}
	return errors.E0002
}

// CompileDiagnostic 把编译错误转换为诊断
func CompileDiagnostic(err error) errors.Diagnostic {
	if cerr, ok := err.(*compiler.Error); ok {
		return errors.Diagnostic{
			Code:    cerr.Code,
			Level:   errors.LevelError,
			Message: cerr.Message,
			Offset:  cerr.Offset,
			End:     cerr.Offset,
		}
	}
	return errors.Diagnostic{Code: errors.E0001, Level: errors.LevelError, Message: err.Error()}
}
