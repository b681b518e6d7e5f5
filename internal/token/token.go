package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF, BLANK）
// 2. 字面量（标识符、数字、字符串）
// 3. 运算符（算术、赋值、比较）
// 4. 分隔符（括号、逗号、冒号等）
// 5. 关键字
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 输入结束
	BLANK                    // 语句分隔符（词法分析器目前不产生）

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符
	INT    // 整数字面量 (int32)
	FLOAT  // 浮点数字面量 (float64)
	STRING // 字符串字面量

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	CARET   // ^
	PERCENT // %
	BANG    // !

	// ----------------------------------------------------------
	// 赋值运算符
	// ----------------------------------------------------------
	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	STAR_ASSIGN  // *=
	SLASH_ASSIGN // /=

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	DOT       // .
	COLON     // :
	SEMICOLON // ;

	// ----------------------------------------------------------
	// 关键字
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	IF          // if
	ELSE        // else
	WHILE       // while
	LET         // let
	FN          // fn
	END         // end
	RETURN      // return
	TRUE        // true
	FALSE       // false
	keyword_end // 关键字结束标记（不是实际 token）
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	BLANK:   "BLANK",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	CARET:   "^",
	PERCENT: "%",
	BANG:    "!",

	ASSIGN:       "=",
	PLUS_ASSIGN:  "+=",
	MINUS_ASSIGN: "-=",
	STAR_ASSIGN:  "*=",
	SLASH_ASSIGN: "/=",

	EQ: "==",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	COLON:     ":",
	SEMICOLON: ";",

	IF:     "if",
	ELSE:   "else",
	WHILE:  "while",
	LET:    "let",
	FN:     "fn",
	END:    "end",
	RETURN: "return",
	TRUE:   "true",
	FALSE:  "false",
}

// ============================================================================
// 关键字查找表
// ============================================================================
//
// keywords 在包初始化时构建一次，之后只读，所有词法分析器实例共享。
//
// ============================================================================

var keywords = map[string]TokenType{
	"if":     IF,
	"let":    LET,
	"else":   ELSE,
	"while":  WHILE,
	"fn":     FN,
	"true":   TRUE,
	"false":  FALSE,
	"end":    END,
	"return": RETURN,
}

// LookupIdent 查找标识符是否为关键字
//
// 返回:
//   - TokenType: 如果是关键字返回对应类型，否则返回 IDENT
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// IsAssign 判断是否为赋值类运算符（= 及复合赋值）
func IsAssign(t TokenType) bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		return true
	}
	return false
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 一旦产生就不再修改，生命周期只在一次语法分析内：
// - Type: token 类型
// - Literal: 原始字面量文本
// - Value: 解析后的值（int32 / float64 / string / bool）
// - Offset: 在源代码中的字节偏移（不是行列号）
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值
	Offset  int         // 字节偏移量 (从0开始)
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, FLOAT, STRING, ILLEGAL:
		return fmt.Sprintf("%s(%s) at %d", t.Type, t.Literal, t.Offset)
	default:
		return fmt.Sprintf("%s at %d", t.Type, t.Offset)
	}
}

// Is 判断 token 类型
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

// ============================================================================
// Token 构造函数
// ============================================================================

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, offset int) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Offset:  offset,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字、字符串和布尔字面量，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, offset int) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Offset:  offset,
	}
}
