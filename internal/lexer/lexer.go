package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/useverto/uwu/internal/i18n"
	"github.com/useverto/uwu/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器按需（pull）产生 Token，由语法分析器逐个拉取：
// 1. 源代码按字节序列处理，位置一律使用字节偏移
// 2. 空白、换行和 # 注释不产生 Token
// 3. 非法字符、越界数字产生 ILLEGAL Token，不会中断扫描
// 4. 输入结束后重复调用 NextToken 始终返回 EOF
//
// 正则字面量由语法分析器在遇到前缀 / 时通过 ReadRegexp 回退扫描。
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source string // 源代码字符串

	start   int // 当前 Token 的起始位置（字节偏移）
	current int // 当前扫描位置（字节偏移）

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Offset  int    // 错误位置（字节偏移）
	Message string // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Offset, e.Message)
}

// New 创建一个新的词法分析器
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// NextToken 返回下一个 Token
//
// 返回:
//   - token.Token: 下一个词法单元；输入耗尽后始终为 EOF
func (l *Lexer) NextToken() token.Token {
	l.skipTrivia()

	l.start = l.current
	if l.isAtEnd() {
		return token.New(token.EOF, "", l.current)
	}

	ch := l.advance()

	switch ch {
	case '(':
		return l.makeToken(token.LPAREN)
	case ')':
		return l.makeToken(token.RPAREN)
	case '{':
		return l.makeToken(token.LBRACE)
	case '}':
		return l.makeToken(token.RBRACE)
	case '[':
		return l.makeToken(token.LBRACKET)
	case ']':
		return l.makeToken(token.RBRACKET)
	case ',':
		return l.makeToken(token.COMMA)
	case '.':
		return l.makeToken(token.DOT)
	case ':':
		return l.makeToken(token.COLON)
	case ';':
		return l.makeToken(token.SEMICOLON)
	case '^':
		return l.makeToken(token.CARET)
	case '%':
		return l.makeToken(token.PERCENT)

	// ----------------------------------------------------------
	// 可能是双字符的运算符
	// ----------------------------------------------------------
	case '=':
		return l.either('=', token.EQ, token.ASSIGN)
	case '!':
		return l.either('=', token.NE, token.BANG)
	case '<':
		return l.either('=', token.LE, token.LT)
	case '>':
		return l.either('=', token.GE, token.GT)
	case '+':
		return l.either('=', token.PLUS_ASSIGN, token.PLUS)
	case '-':
		return l.either('=', token.MINUS_ASSIGN, token.MINUS)
	case '*':
		return l.either('=', token.STAR_ASSIGN, token.STAR)
	case '/':
		return l.either('=', token.SLASH_ASSIGN, token.SLASH)

	case '"':
		return l.string()
	}

	if isDigit(ch) {
		return l.number()
	}
	if isAlpha(ch) {
		return l.identifier()
	}
	return l.illegal()
}

// skipTrivia 跳过空白、换行和 # 行注释
func (l *Lexer) skipTrivia() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.current++
		case '#':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.current++
			}
		default:
			return
		}
	}
}

// either 向后查看一个字节，匹配 expected 时产生双字符 Token
func (l *Lexer) either(expected byte, double, single token.TokenType) token.Token {
	if l.match(expected) {
		return l.makeToken(double)
	}
	return l.makeToken(single)
}

// ============================================================================
// 字面量
// ============================================================================

// string 处理字符串字面量
//
// 不处理转义字符；遇到下一个 " 或输入结束时终止，
// 未闭合的字符串直接读到输入末尾，不视为错误。
func (l *Lexer) string() token.Token {
	for !l.isAtEnd() && l.peek() != '"' {
		l.current++
	}
	value := l.source[l.start+1 : l.current]
	if !l.isAtEnd() {
		l.current++ // 结束引号
	}
	return l.makeTokenWithValue(token.STRING, value)
}

// number 处理数字字面量
//
// 数字由若干位数字和至多一个小数点组成，遇到第二个小数点即停止。
// 整数按 int32 解析，浮点数按 float64 解析；解析失败产生 ILLEGAL。
func (l *Lexer) number() token.Token {
	isFloat := false
	for !l.isAtEnd() {
		ch := l.peek()
		if isDigit(ch) {
			l.current++
			continue
		}
		if ch == '.' && !isFloat {
			isFloat = true
			l.current++
			continue
		}
		break
	}

	text := l.source[l.start:l.current]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.errorToken(i18n.T(i18n.ErrInvalidFloat, text))
		}
		return l.makeTokenWithValue(token.FLOAT, f)
	}

	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return l.errorToken(i18n.T(i18n.ErrIntOutOfRange, text))
	}
	return l.makeTokenWithValue(token.INT, int32(n))
}

// identifier 处理标识符和关键字
func (l *Lexer) identifier() token.Token {
	for !l.isAtEnd() && isAlpha(l.peek()) {
		l.current++
	}

	text := l.source[l.start:l.current]
	switch tt := token.LookupIdent(text); tt {
	case token.TRUE:
		return l.makeTokenWithValue(tt, true)
	case token.FALSE:
		return l.makeTokenWithValue(tt, false)
	case token.IDENT:
		return l.makeTokenWithValue(tt, text)
	default:
		return l.makeToken(tt)
	}
}

// illegal 把无法识别的字符（按完整 UTF-8 字符）包装为 ILLEGAL Token
func (l *Lexer) illegal() token.Token {
	r, size := utf8.DecodeRuneInString(l.source[l.start:])
	l.current = l.start + size
	return l.errorToken(i18n.T(i18n.ErrUnexpectedChar, r))
}

// ============================================================================
// 正则字面量
// ============================================================================

// ReadRegexp 从 offset（开头 / 之后的字节偏移）重新扫描正则字面量
//
// 模式文本读到下一个未转义的 /，转义序列原样保留；
// 紧跟其后的字母序列作为标志。扫描结束后词法分析器从字面量之后继续。
//
// 返回:
//   - pattern: 模式文本
//   - flags: 标志，没有标志时为空串
//   - ok: 遇到闭合 / 时为 true
func (l *Lexer) ReadRegexp(offset int) (pattern, flags string, ok bool) {
	l.current = offset
	l.dropErrorsFrom(offset)
	for !l.isAtEnd() {
		ch := l.peek()
		if ch == '\\' && l.current+1 < len(l.source) {
			l.current += 2
			continue
		}
		if ch == '/' {
			ok = true
			break
		}
		l.current++
	}

	pattern = l.source[offset:l.current]
	if !ok {
		return pattern, "", false
	}
	l.current++ // 结束的 /

	flagStart := l.current
	for !l.isAtEnd() && isAlpha(l.peek()) {
		l.current++
	}
	return pattern, l.source[flagStart:l.current], true
}

// ============================================================================
// 辅助方法
// ============================================================================

// dropErrorsFrom 丢弃回退区间内预读时产生的错误
func (l *Lexer) dropErrorsFrom(offset int) {
	kept := l.errors[:0]
	for _, e := range l.errors {
		if e.Offset < offset {
			kept = append(kept, e)
		}
	}
	l.errors = kept
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() byte {
	ch := l.source[l.current]
	l.current++
	return ch
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

func (l *Lexer) makeToken(tokenType token.TokenType) token.Token {
	return token.New(tokenType, l.source[l.start:l.current], l.start)
}

func (l *Lexer) makeTokenWithValue(tokenType token.TokenType, value interface{}) token.Token {
	return token.NewWithValue(tokenType, l.source[l.start:l.current], value, l.start)
}

// errorToken 记录错误并返回 ILLEGAL Token，Value 中携带错误信息
func (l *Lexer) errorToken(message string) token.Token {
	l.errors = append(l.errors, Error{Offset: l.start, Message: message})
	return l.makeTokenWithValue(token.ILLEGAL, message)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}
