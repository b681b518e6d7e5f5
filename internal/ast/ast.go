package ast

import (
	"strconv"
	"strings"

	"github.com/useverto/uwu/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() int       // 返回节点在源代码中的字节偏移
	String() string // 返回节点的字符串表示（可重新解析为同构的树）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 标识符
// ============================================================================

// Ident 标识符
type Ident struct {
	Token token.Token
	Name  string
}

func (e *Ident) Pos() int       { return e.Token.Offset }
func (e *Ident) String() string { return e.Name }
func (e *Ident) exprNode()      {}

// Equal 按名称比较两个标识符，与位置无关
func (e *Ident) Equal(other *Ident) bool {
	return other != nil && e.Name == other.Name
}

// ============================================================================
// 字面量
// ============================================================================

// IntegerLiteral 整数字面量 (int32)
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (e *IntegerLiteral) Pos() int { return e.Token.Offset }
func (e *IntegerLiteral) String() string {
	return strconv.FormatInt(int64(e.Value), 10)
}
func (e *IntegerLiteral) exprNode() {}

// FloatLiteral 浮点数字面量 (float64)
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (e *FloatLiteral) Pos() int { return e.Token.Offset }
func (e *FloatLiteral) String() string {
	return FormatFloat(e.Value)
}
func (e *FloatLiteral) exprNode() {}

// FormatFloat 以最短形式输出浮点数，并保证结果带有小数点，
// 这样重新词法分析时仍然得到 FLOAT。
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// StringLiteral 字符串字面量（不含转义处理）
type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) Pos() int       { return e.Token.Offset }
func (e *StringLiteral) String() string { return `"` + e.Value + `"` }
func (e *StringLiteral) exprNode()      {}

// BoolLiteral 布尔字面量
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (e *BoolLiteral) Pos() int { return e.Token.Offset }
func (e *BoolLiteral) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BoolLiteral) exprNode() {}

// ArrayLiteral 数组字面量 [1, 2, 3]，元素保持源码顺序
type ArrayLiteral struct {
	LBracket token.Token
	Elements []Expression
}

func (e *ArrayLiteral) Pos() int { return e.LBracket.Offset }
func (e *ArrayLiteral) String() string {
	return "[" + joinExprs(e.Elements) + "]"
}
func (e *ArrayLiteral) exprNode() {}

// HashPair 哈希字面量中的一个键值对
type HashPair struct {
	Key   Expression
	Value Expression
}

// HashLiteral 哈希字面量 {k: v}
//
// 键可以是任意表达式；键值对保持插入顺序。
type HashLiteral struct {
	LBrace token.Token
	Pairs  []HashPair
}

func (e *HashLiteral) Pos() int { return e.LBrace.Offset }
func (e *HashLiteral) String() string {
	pairs := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		pairs[i] = p.Key.String() + ": " + p.Value.String()
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
func (e *HashLiteral) exprNode() {}

// RegexpLiteral 正则字面量 /pattern/flags
type RegexpLiteral struct {
	Token   token.Token // 开头的 /
	Pattern string      // 原样保留的模式文本（含转义）
	Flags   string      // 标志，为空表示没有标志
}

func (e *RegexpLiteral) Pos() int       { return e.Token.Offset }
func (e *RegexpLiteral) String() string { return "/" + e.Pattern + "/" + e.Flags }
func (e *RegexpLiteral) exprNode()      {}

// ============================================================================
// 运算表达式
// ============================================================================

// PrefixExpr 前缀表达式 !x -x +x
type PrefixExpr struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (e *PrefixExpr) Pos() int { return e.Token.Offset }
func (e *PrefixExpr) String() string {
	return "(" + e.Operator + e.Right.String() + ")"
}
func (e *PrefixExpr) exprNode() {}

// InfixExpr 二元表达式 a + b
type InfixExpr struct {
	Token    token.Token // 运算符 token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpr) Pos() int { return e.Left.Pos() }
func (e *InfixExpr) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}
func (e *InfixExpr) exprNode() {}

// IndexExpr 索引表达式 a[i]
type IndexExpr struct {
	LBracket token.Token
	Left     Expression
	Index    Expression
}

func (e *IndexExpr) Pos() int { return e.Left.Pos() }
func (e *IndexExpr) String() string {
	return e.Left.String() + "[" + e.Index.String() + "]"
}
func (e *IndexExpr) exprNode() {}

// AccessorExpr 成员访问 a.b.c
//
// 连续的 . 访问被展开为同一个节点的 Chain。
type AccessorExpr struct {
	Base  Expression
	Chain []*Ident
}

func (e *AccessorExpr) Pos() int { return e.Base.Pos() }
func (e *AccessorExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Base.String())
	for _, id := range e.Chain {
		sb.WriteByte('.')
		sb.WriteString(id.Name)
	}
	return sb.String()
}
func (e *AccessorExpr) exprNode() {}

// CallExpr 函数调用 f(a, b)
//
// Function 只会是 *Ident 或以 *Ident 为基的 *AccessorExpr。
type CallExpr struct {
	LParen    token.Token
	Function  Expression
	Arguments []Expression
}

func (e *CallExpr) Pos() int { return e.Function.Pos() }
func (e *CallExpr) String() string {
	return e.Function.String() + "(" + joinExprs(e.Arguments) + ")"
}
func (e *CallExpr) exprNode() {}

// MacroExpr 宏调用 name!(args)
type MacroExpr struct {
	Token     token.Token // 宏名 token
	Name      string
	Arguments []Expression
}

func (e *MacroExpr) Pos() int { return e.Token.Offset }
func (e *MacroExpr) String() string {
	return e.Name + "!(" + joinExprs(e.Arguments) + ")"
}
func (e *MacroExpr) exprNode() {}

// ============================================================================
// 绑定与赋值
// ============================================================================

// LetExpr 声明 let x = v
type LetExpr struct {
	Token token.Token // let
	Name  *Ident
	Value Expression
}

func (e *LetExpr) Pos() int { return e.Token.Offset }
func (e *LetExpr) String() string {
	return "let " + e.Name.Name + " = " + e.Value.String()
}
func (e *LetExpr) exprNode() {}

// AssignExpr 赋值 x = v / a[i] = v / a.b += v
//
// Target 只会是 *Ident、*IndexExpr 或 *AccessorExpr。
type AssignExpr struct {
	Target   Expression
	Operator token.Token // = += -= *= /=
	Value    Expression
}

func (e *AssignExpr) Pos() int { return e.Target.Pos() }
func (e *AssignExpr) String() string {
	return e.Target.String() + " " + e.Operator.Type.String() + " " + e.Value.String()
}
func (e *AssignExpr) exprNode() {}

// ============================================================================
// 控制流
// ============================================================================

// IfExpr if (cond): ... [else: ...] end
type IfExpr struct {
	Token       token.Token
	Condition   Expression
	Consequence *Block
	Alternative *Block // 可为 nil
}

func (e *IfExpr) Pos() int { return e.Token.Offset }
func (e *IfExpr) String() string {
	var sb strings.Builder
	sb.WriteString("if (")
	sb.WriteString(e.Condition.String())
	sb.WriteString("):")
	writeInline(&sb, e.Consequence)
	if e.Alternative != nil {
		sb.WriteString(" else:")
		writeInline(&sb, e.Alternative)
	}
	sb.WriteString(" end")
	return sb.String()
}
func (e *IfExpr) exprNode() {}

// WhileExpr while (cond): ... end
type WhileExpr struct {
	Token     token.Token
	Condition Expression
	Body      *Block
}

func (e *WhileExpr) Pos() int { return e.Token.Offset }
func (e *WhileExpr) String() string {
	var sb strings.Builder
	sb.WriteString("while (")
	sb.WriteString(e.Condition.String())
	sb.WriteString("):")
	writeInline(&sb, e.Body)
	sb.WriteString(" end")
	return sb.String()
}
func (e *WhileExpr) exprNode() {}

// FuncExpr 函数字面量
//
// 三种形式：fn name(a) { ... }、fn (a) { ... } 和单语句形式 fn name(a): expr。
// 单语句形式的 Body 恰好包含一个语句，Inline 为 true。
type FuncExpr struct {
	Token  token.Token // fn
	Name   *Ident      // 匿名函数为 nil
	Params []*Ident
	Body   *Block
	Inline bool
}

func (e *FuncExpr) Pos() int { return e.Token.Offset }
func (e *FuncExpr) String() string {
	var sb strings.Builder
	sb.WriteString("fn ")
	if e.Name != nil {
		sb.WriteString(e.Name.Name)
	}
	sb.WriteByte('(')
	for i, p := range e.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
	}
	sb.WriteByte(')')
	if e.Inline {
		sb.WriteByte(':')
		writeInline(&sb, e.Body)
		return sb.String()
	}
	sb.WriteString(" {")
	writeInline(&sb, e.Body)
	sb.WriteString(" }")
	return sb.String()
}
func (e *FuncExpr) exprNode() {}

// ============================================================================
// 语句
// ============================================================================

// BlankStmt 空语句（分隔符）
type BlankStmt struct {
	Token token.Token
}

func (s *BlankStmt) Pos() int       { return s.Token.Offset }
func (s *BlankStmt) String() string { return ";" }
func (s *BlankStmt) stmtNode()      {}

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) Pos() int       { return s.Expr.Pos() }
func (s *ExprStmt) String() string { return s.Expr.String() }
func (s *ExprStmt) stmtNode()      {}

// ReturnStmt return 语句
type ReturnStmt struct {
	Token token.Token
	Value Expression
}

func (s *ReturnStmt) Pos() int       { return s.Token.Offset }
func (s *ReturnStmt) String() string { return "return " + s.Value.String() }
func (s *ReturnStmt) stmtNode()      {}

// ============================================================================
// 代码块与程序
// ============================================================================

// Item 代码块中的一条语句及其起始字节偏移
type Item struct {
	Stmt   Statement
	Offset int
}

// Block 语句序列，偏移量按源码位置单调不减
type Block struct {
	Items []Item
}

// Append 追加一条语句
func (b *Block) Append(stmt Statement, offset int) {
	b.Items = append(b.Items, Item{Stmt: stmt, Offset: offset})
}

// Len 返回语句数量
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Items)
}

func (b *Block) String() string {
	if b == nil {
		return ""
	}
	stmts := make([]string, len(b.Items))
	for i, item := range b.Items {
		stmts[i] = item.Stmt.String()
	}
	return strings.Join(stmts, "; ")
}

// Program 顶层代码块
type Program struct {
	Block
}

func (p *Program) String() string { return p.Block.String() }

// ============================================================================
// 辅助函数
// ============================================================================

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// writeInline 以 " stmt; stmt" 的形式写出代码块，空代码块不写任何内容
func writeInline(sb *strings.Builder, b *Block) {
	if b.Len() == 0 {
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(b.String())
}
