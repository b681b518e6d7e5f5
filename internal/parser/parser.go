package parser

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/i18n"
	"github.com/useverto/uwu/internal/lexer"
	"github.com/useverto/uwu/internal/token"
)

// ============================================================================
// Parser - 语法分析器
// ============================================================================
//
// 递归下降 + 优先级爬升（Pratt）：
// - 从词法分析器按需拉取 token，保持 current / next 两个 token 的窗口
// - 解析失败的产生式返回 nil，错误记录在列表中，不会 panic
// - 前缀产生式结束时 current 停在表达式的最后一个 token 上
//
// ============================================================================

// maxExprDepth 最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// ErrorKind 语法错误类别
type ErrorKind int

const (
	// UnexpectedToken 遇到了不符合语法的 token
	UnexpectedToken ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error 语法分析错误
type Error struct {
	Kind    ErrorKind
	Message string
	Token   token.Token // 出错时所在的 token
}

func (e Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Token.Offset, e.Message)
}

// Errors 语法错误列表
type Errors []Error

// Err 把错误列表合并为一个 error，列表为空时返回 nil
func (es Errors) Err() error {
	var err error
	for _, e := range es {
		err = multierr.Append(err, e)
	}
	return err
}

// ============================================================================
// 优先级
// ============================================================================

// Precedence 运算符优先级，只在优先级爬升时用于比较
type Precedence int

const (
	Lowest      Precedence = iota
	Equals                 // == !=
	LessGreater            // < <= > >=
	Sum                    // + - ^ %
	Product                // * /
	Prefix                 // !x -x +x
	Call                   // f(x)
	Index                  // a[i] a.b
	Assign                 // = += -= *= /=
)

var precedences = map[token.TokenType]Precedence{
	token.EQ:           Equals,
	token.NE:           Equals,
	token.LT:           LessGreater,
	token.LE:           LessGreater,
	token.GT:           LessGreater,
	token.GE:           LessGreater,
	token.PLUS:         Sum,
	token.MINUS:        Sum,
	token.CARET:        Sum,
	token.PERCENT:      Sum,
	token.STAR:         Product,
	token.SLASH:        Product,
	token.LPAREN:       Call,
	token.LBRACKET:     Index,
	token.DOT:          Index,
	token.ASSIGN:       Assign,
	token.PLUS_ASSIGN:  Assign,
	token.MINUS_ASSIGN: Assign,
	token.STAR_ASSIGN:  Assign,
	token.SLASH_ASSIGN: Assign,
}

// PrecedenceOf 返回 token 作为中缀运算符时的优先级，非中缀 token 返回 Lowest
func PrecedenceOf(t token.TokenType) Precedence {
	if p, ok := precedences[t]; ok {
		return p
	}
	return Lowest
}

// ============================================================================
// 构造与入口
// ============================================================================

// Parser 语法分析器
type Parser struct {
	lexer *lexer.Lexer

	current token.Token // 当前 token
	next    token.Token // 预读 token

	errors    Errors
	exprDepth int  // 表达式解析深度
	halted    bool // 嵌套过深后停止解析

	grouped map[ast.Expression]bool // 由括号表达式得到的节点，不能作为调用目标
}

// New 创建一个新的语法分析器
func New(source string) *Parser {
	p := &Parser{lexer: lexer.New(source)}
	// 读取两个 token 填满 current / next
	p.bump()
	p.bump()
	return p
}

// Parse 解析源代码，返回尽力构建的程序以及全部语法错误
func Parse(source string) (*ast.Program, Errors) {
	p := New(source)
	program := p.ParseProgram()
	return program, p.Errors()
}

// ParseProgram 解析整个程序
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.currentIs(token.EOF) && !p.halted {
		offset := p.current.Offset
		if stmt := p.parseStatement(); stmt != nil {
			program.Append(stmt, offset)
		}
		p.bump()
	}
	return program
}

// Errors 返回所有语法错误
func (p *Parser) Errors() Errors {
	return p.errors
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// ============================================================================
// 辅助方法
// ============================================================================

// bump 前移一个 token：预读 token 成为当前 token，并从词法分析器补充预读
func (p *Parser) bump() {
	p.current = p.next
	p.next = p.lexer.NextToken()
}

func (p *Parser) currentIs(t token.TokenType) bool {
	return p.current.Type == t
}

func (p *Parser) nextIs(t token.TokenType) bool {
	return p.next.Type == t
}

// expectNext 预读 token 为 t（或 BLANK 分隔符）时前移并返回 true，
// 否则记录错误并返回 false
func (p *Parser) expectNext(t token.TokenType) bool {
	if p.nextIs(t) || p.nextIs(token.BLANK) {
		p.bump()
		return true
	}
	p.errorAt(p.current, i18n.T(i18n.ErrUnexpectedToken, t, describe(p.next)))
	return false
}

// errorAt 记录一个语法错误，同一 token 上只保留第一个错误
func (p *Parser) errorAt(tok token.Token, message string) {
	if p.halted {
		return
	}
	if n := len(p.errors); n > 0 && p.errors[n-1].Token.Offset == tok.Offset {
		return
	}
	p.errors = append(p.errors, Error{
		Kind:    UnexpectedToken,
		Message: message,
		Token:   tok,
	})
}

// describe 返回 token 在错误信息中的描述
func describe(tok token.Token) string {
	switch tok.Type {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.ILLEGAL:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	default:
		return fmt.Sprintf("'%s'", tok.Type)
	}
}

func (p *Parser) markGrouped(expr ast.Expression) {
	if p.grouped == nil {
		p.grouped = make(map[ast.Expression]bool)
	}
	p.grouped[expr] = true
}

// ============================================================================
// 语句
// ============================================================================

func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement

	switch p.current.Type {
	case token.SEMICOLON, token.BLANK:
		return &ast.BlankStmt{Token: p.current}
	case token.RETURN:
		stmt = p.parseReturnStatement()
	default:
		if expr := p.parseExpression(Lowest); expr != nil {
			stmt = &ast.ExprStmt{Expr: expr}
		}
	}

	// 可选的语句终止符；失败的语句也吞掉它，避免产生多余的空语句
	if p.nextIs(token.SEMICOLON) {
		p.bump()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.current

	// return 必须带表达式；终止 token 留给外层代码块处理
	switch p.next.Type {
	case token.EOF, token.SEMICOLON, token.END, token.ELSE, token.RBRACE:
		p.errorAt(tok, i18n.T(i18n.ErrExpectedExpression, "return"))
		return nil
	}
	p.bump()

	value := p.parseExpression(Lowest)
	if value == nil {
		return nil
	}
	return &ast.ReturnStmt{Token: tok, Value: value}
}

// parseBlock 解析语句直到遇到 terminators 之一或输入结束
//
// 调用时 current 位于代码块之前的 token（: 或 {），
// 返回时 current 位于终止 token 或 EOF 上。
func (p *Parser) parseBlock(terminators ...token.TokenType) *ast.Block {
	block := &ast.Block{}
	p.bump()

	for !p.currentIs(token.EOF) && !p.halted && !p.currentIsAny(terminators) {
		offset := p.current.Offset
		if stmt := p.parseStatement(); stmt != nil {
			block.Append(stmt, offset)
		}
		p.bump()
	}
	return block
}

func (p *Parser) currentIsAny(types []token.TokenType) bool {
	for _, t := range types {
		if p.currentIs(t) {
			return true
		}
	}
	return false
}

// expectCurrent 检查代码块已被 t 终止
func (p *Parser) expectCurrent(t token.TokenType) bool {
	if p.currentIs(t) {
		return true
	}
	p.errorAt(p.current, i18n.T(i18n.ErrUnexpectedToken, t, describe(p.current)))
	return false
}

// ============================================================================
// 表达式
// ============================================================================

func (p *Parser) parseExpression(precedence Precedence) ast.Expression {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	if p.exprDepth > maxExprDepth {
		p.errorAt(p.current, i18n.T(i18n.ErrExprTooDeep, maxExprDepth))
		p.halted = true
		return nil
	}

	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.nextIs(token.SEMICOLON) && precedence < PrecedenceOf(p.next.Type) {
		p.bump()
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.current

	switch tok.Type {
	case token.IDENT:
		if p.nextIs(token.BANG) {
			return p.parseMacro()
		}
		return p.identifier(tok)
	case token.INT:
		return &ast.IntegerLiteral{Token: tok, Value: tok.Value.(int32)}
	case token.FLOAT:
		return &ast.FloatLiteral{Token: tok, Value: tok.Value.(float64)}
	case token.STRING:
		return &ast.StringLiteral{Token: tok, Value: tok.Value.(string)}
	case token.TRUE, token.FALSE:
		return &ast.BoolLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.LET:
		return p.parseLet()
	case token.LBRACKET:
		return p.parseArray()
	case token.LBRACE:
		return p.parseHash()
	case token.BANG, token.MINUS, token.PLUS:
		return p.parsePrefixExpr()
	case token.LPAREN:
		return p.parseGrouped()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FN:
		return p.parseFunc()
	case token.SLASH, token.SLASH_ASSIGN:
		// /= 开头的正则：模式以 = 开头
		return p.parseRegexp()
	case token.ILLEGAL:
		message, _ := tok.Value.(string)
		p.errorAt(tok, message)
		return nil
	default:
		p.errorAt(tok, i18n.T(i18n.ErrNoPrefixParse, describe(tok)))
		return nil
	}
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.current.Type {
	case token.LPAREN:
		return p.parseCall(left)
	case token.LBRACKET:
		return p.parseIndex(left)
	case token.DOT:
		return p.parseAccessor(left)
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN:
		return p.parseAssign(left)
	default:
		return p.parseInfixExpr(left)
	}
}

func (p *Parser) identifier(tok token.Token) *ast.Ident {
	return &ast.Ident{Token: tok, Name: tok.Literal}
}

// parseLet 解析 let x = v
func (p *Parser) parseLet() ast.Expression {
	tok := p.current
	if !p.expectNext(token.IDENT) {
		return nil
	}
	name := p.identifier(p.current)
	if !p.expectNext(token.ASSIGN) {
		return nil
	}
	p.bump()

	value := p.parseExpression(Lowest)
	if value == nil {
		return nil
	}
	return &ast.LetExpr{Token: tok, Name: name, Value: value}
}

func (p *Parser) parsePrefixExpr() ast.Expression {
	tok := p.current
	p.bump()

	right := p.parseExpression(Prefix)
	if right == nil {
		return nil
	}
	return &ast.PrefixExpr{Token: tok, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	tok := p.current
	precedence := PrecedenceOf(tok.Type)
	p.bump()

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.InfixExpr{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseGrouped() ast.Expression {
	p.bump()

	expr := p.parseExpression(Lowest)
	if expr == nil {
		return nil
	}
	if !p.expectNext(token.RPAREN) {
		return nil
	}
	p.markGrouped(expr)
	return expr
}

// ----------------------------------------------------------
// 字面量
// ----------------------------------------------------------

func (p *Parser) parseArray() ast.Expression {
	tok := p.current
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.ArrayLiteral{LBracket: tok, Elements: elements}
}

// parseHash 解析 {k: v, ...}，键可以是任意表达式
func (p *Parser) parseHash() ast.Expression {
	hash := &ast.HashLiteral{LBrace: p.current}

	for !p.nextIs(token.RBRACE) {
		p.bump()
		key := p.parseExpression(Lowest)
		if key == nil {
			return nil
		}
		if !p.expectNext(token.COLON) {
			return nil
		}
		p.bump()
		value := p.parseExpression(Lowest)
		if value == nil {
			return nil
		}
		hash.Pairs = append(hash.Pairs, ast.HashPair{Key: key, Value: value})

		if !p.nextIs(token.COMMA) {
			break
		}
		p.bump()
	}

	if !p.expectNext(token.RBRACE) {
		return nil
	}
	return hash
}

// parseExpressionList 解析以逗号分隔、以 end 结束的表达式列表，允许尾随逗号
//
// 调用时 current 位于列表的开始 token 上。
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	var list []ast.Expression

	for !p.nextIs(end) {
		p.bump()
		expr := p.parseExpression(Lowest)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)

		if !p.nextIs(token.COMMA) {
			break
		}
		p.bump()
	}

	if !p.expectNext(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseRegexp() ast.Expression {
	tok := p.current

	pattern, flags, ok := p.lexer.ReadRegexp(tok.Offset + 1)
	// 词法分析器已回退，重新填充预读 token
	p.next = p.lexer.NextToken()
	if !ok {
		p.errorAt(tok, i18n.T(i18n.ErrUnterminatedRegexp))
		return nil
	}
	return &ast.RegexpLiteral{Token: tok, Pattern: pattern, Flags: flags}
}

// parseMacro 解析 name!(args)
func (p *Parser) parseMacro() ast.Expression {
	tok := p.current
	p.bump() // !
	if !p.expectNext(token.LPAREN) {
		return nil
	}

	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.MacroExpr{Token: tok, Name: tok.Literal, Arguments: args}
}

// ----------------------------------------------------------
// 后缀与赋值
// ----------------------------------------------------------

// parseCall 解析调用：只有标识符以及以标识符为基的成员访问可以被调用
func (p *Parser) parseCall(fn ast.Expression) ast.Expression {
	tok := p.current

	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	if !p.isCallable(fn) {
		p.errorAt(tok, i18n.T(i18n.ErrNotCallable))
		return nil
	}
	return &ast.CallExpr{LParen: tok, Function: fn, Arguments: args}
}

func (p *Parser) isCallable(fn ast.Expression) bool {
	if p.grouped[fn] {
		return false
	}
	switch fn := fn.(type) {
	case *ast.Ident:
		return true
	case *ast.AccessorExpr:
		_, isIdent := fn.Base.(*ast.Ident)
		return isIdent && !p.grouped[fn.Base]
	default:
		return false
	}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.current
	p.bump()

	index := p.parseExpression(Lowest)
	if index == nil {
		return nil
	}
	if !p.expectNext(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpr{LBracket: tok, Left: left, Index: index}
}

// parseAccessor 解析 .name，连续的访问合并到同一个 AccessorExpr
func (p *Parser) parseAccessor(left ast.Expression) ast.Expression {
	if !p.expectNext(token.IDENT) {
		return nil
	}
	name := p.identifier(p.current)

	if acc, ok := left.(*ast.AccessorExpr); ok && !p.grouped[left] {
		acc.Chain = append(acc.Chain, name)
		return acc
	}
	return &ast.AccessorExpr{Base: left, Chain: []*ast.Ident{name}}
}

func (p *Parser) parseAssign(target ast.Expression) ast.Expression {
	op := p.current
	if !isValidAssignTarget(target) {
		p.errorAt(op, i18n.T(i18n.ErrInvalidAssignTarget))
		return nil
	}
	p.bump()

	value := p.parseExpression(Lowest)
	if value == nil {
		return nil
	}
	return &ast.AssignExpr{Target: target, Operator: op, Value: value}
}

// isValidAssignTarget 检查表达式是否是有效的赋值目标
func isValidAssignTarget(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Ident, *ast.IndexExpr, *ast.AccessorExpr:
		return true
	default:
		return false
	}
}

// ----------------------------------------------------------
// 控制流与函数
// ----------------------------------------------------------

// parseCondition 解析 (cond): 部分
func (p *Parser) parseCondition() ast.Expression {
	if !p.expectNext(token.LPAREN) {
		return nil
	}
	p.bump()

	cond := p.parseExpression(Lowest)
	if cond == nil {
		return nil
	}
	if !p.expectNext(token.RPAREN) || !p.expectNext(token.COLON) {
		return nil
	}
	return cond
}

// parseIf 解析 if (cond): ... [else: ...] end
func (p *Parser) parseIf() ast.Expression {
	expr := &ast.IfExpr{Token: p.current}

	if expr.Condition = p.parseCondition(); expr.Condition == nil {
		return nil
	}

	expr.Consequence = p.parseBlock(token.ELSE, token.END)
	if p.currentIs(token.ELSE) {
		if !p.expectNext(token.COLON) {
			return nil
		}
		expr.Alternative = p.parseBlock(token.END)
	}

	if !p.expectCurrent(token.END) {
		return nil
	}
	return expr
}

// parseWhile 解析 while (cond): ... end
func (p *Parser) parseWhile() ast.Expression {
	expr := &ast.WhileExpr{Token: p.current}

	if expr.Condition = p.parseCondition(); expr.Condition == nil {
		return nil
	}

	expr.Body = p.parseBlock(token.END)
	if !p.expectCurrent(token.END) {
		return nil
	}
	return expr
}

// parseFunc 解析函数字面量
//
//	fn name(a, b) { ... }
//	fn (a) { ... }
//	fn name(a): stmt
func (p *Parser) parseFunc() ast.Expression {
	fn := &ast.FuncExpr{Token: p.current}

	if p.nextIs(token.IDENT) {
		p.bump()
		fn.Name = p.identifier(p.current)
	}

	if !p.expectNext(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	fn.Params = params

	switch {
	case p.nextIs(token.LBRACE):
		p.bump()
		fn.Body = p.parseBlock(token.RBRACE)
		if !p.expectCurrent(token.RBRACE) {
			return nil
		}
	case p.nextIs(token.COLON):
		p.bump()
		p.bump()
		offset := p.current.Offset
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		fn.Body = &ast.Block{}
		fn.Body.Append(stmt, offset)
		fn.Inline = true
	default:
		p.errorAt(p.current, i18n.T(i18n.ErrUnexpectedToken, token.LBRACE, describe(p.next)))
		return nil
	}
	return fn
}

// parseParams 解析 (a, b, c)，调用时 current 位于 ( 上
func (p *Parser) parseParams() ([]*ast.Ident, bool) {
	var params []*ast.Ident

	if p.nextIs(token.RPAREN) {
		p.bump()
		return params, true
	}

	for {
		if !p.expectNext(token.IDENT) {
			return nil, false
		}
		params = append(params, p.identifier(p.current))
		if !p.nextIs(token.COMMA) {
			break
		}
		p.bump()
	}

	if !p.expectNext(token.RPAREN) {
		return nil, false
	}
	return params, true
}
