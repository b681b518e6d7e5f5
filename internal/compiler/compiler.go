// Package compiler 遍历语法树并生成 JavaScript 源码
package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/codegen"
	"github.com/useverto/uwu/internal/errors"
	"github.com/useverto/uwu/internal/i18n"
	"github.com/useverto/uwu/internal/macro"
	"github.com/useverto/uwu/internal/token"
	"github.com/useverto/uwu/internal/types"
)

// Version 编译器版本，生成代码的写法变化时递增
const Version = "0.3.1"

// maxDepth 语法树遍历的最大嵌套深度，左结合的中缀运算链只计一层
const maxDepth = 200

// Error 编译错误，遇到第一个错误即停止编译
type Error struct {
	Code    string // 错误码（见 internal/errors）
	Offset  int    // 出错位置（字节偏移）
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Offset, e.Message)
}

// Compiler 编译器
//
// 同一个 Compiler 多次调用 Compile 时共享顶层类型环境，
// REPL 借此在多行输入之间保留已声明的名称。
type Compiler struct {
	env   *types.Env
	depth int
}

// New 创建编译器
func New() *Compiler {
	return &Compiler{env: types.NewEnv()}
}

// Env 返回当前类型环境
func (c *Compiler) Env() *types.Env {
	return c.env
}

// Compile 使用新的编译器编译程序
func Compile(program *ast.Program) (string, error) {
	return New().Compile(program)
}

// Compile 编译程序
//
// 参数:
//   - program: 没有语法错误的程序
//
// 返回:
//   - string: JavaScript 源码，每条顶层语句一行或多行
//   - error: *Error，出错时输出为空
func (c *Compiler) Compile(program *ast.Program) (string, error) {
	if program == nil {
		return "", nil
	}
	c.depth = 0

	// 编译失败时丢弃本次输入产生的声明
	snapshot := c.env.Clone()
	out, err := c.compileBlock(&program.Block)
	if err != nil {
		c.env = snapshot
		return "", err
	}
	return out, nil
}

// errorf 构造带错误码的编译错误
func (c *Compiler) errorf(code string, offset int, msgID string, args ...interface{}) *Error {
	return &Error{Code: code, Offset: offset, Message: i18n.T(msgID, args...)}
}

// ============================================================================
// 语句
// ============================================================================

func (c *Compiler) compileBlock(block *ast.Block) (string, error) {
	var sb strings.Builder
	for _, item := range block.Items {
		code, err := c.compileStmt(item.Stmt)
		if err != nil {
			return "", err
		}
		sb.WriteString(code)
	}
	return sb.String(), nil
}

// scopedBlock 在子作用域中编译代码块
func (c *Compiler) scopedBlock(block *ast.Block) (string, error) {
	if block == nil {
		return "", nil
	}
	outer := c.env
	c.env = outer.Child()
	defer func() { c.env = outer }()
	return c.compileBlock(block)
}

func (c *Compiler) compileStmt(stmt ast.Statement) (string, error) {
	switch s := stmt.(type) {
	case *ast.BlankStmt:
		return "", nil
	case *ast.ReturnStmt:
		if s.Value == nil {
			return "return;\n", nil
		}
		value, err := c.compileExpr(s.Value)
		if err != nil {
			return "", err
		}
		return "return " + value + ";\n", nil
	case *ast.ExprStmt:
		return c.compileExprStmt(s.Expr)
	default:
		panic(fmt.Sprintf("compiler: unexpected statement %T", stmt))
	}
}

// compileExprStmt 编译表达式语句
//
// let、if、while 和具名函数只能出现在这里；
// 以 { 或 function 开头的表达式语句加括号，避免被当作代码块或函数声明。
func (c *Compiler) compileExprStmt(expr ast.Expression) (string, error) {
	switch e := expr.(type) {
	case *ast.LetExpr:
		return c.compileLet(e)
	case *ast.IfExpr:
		code, err := c.compileIf(e)
		return code + "\n", err
	case *ast.WhileExpr:
		code, err := c.compileWhile(e)
		return code + "\n", err
	case *ast.FuncExpr:
		if e.Name == nil {
			code, err := c.compileFunc(e)
			return "(" + code + ");\n", err
		}
		c.env.AddFunction(e.Name.Name)
		c.env.DeclareType(e.Name.Name, types.TFunction)
		code, err := c.compileFunc(e)
		return code + "\n", err
	case *ast.MacroExpr:
		// 宏展开结果自带结尾的分号
		code, err := c.expandMacro(e)
		return code + "\n", err
	case *ast.AssignExpr:
		code, err := c.compileAssign(e)
		return code + ";\n", err
	case *ast.HashLiteral:
		code, err := c.compileExpr(e)
		return "(" + code + ");\n", err
	default:
		code, err := c.compileExpr(expr)
		return code + ";\n", err
	}
}

func (c *Compiler) compileLet(e *ast.LetExpr) (string, error) {
	value, err := c.compileExpr(e.Value)
	if err != nil {
		return "", err
	}
	c.env.DeclareType(e.Name.Name, c.typeOf(e.Value))
	if _, ok := e.Value.(*ast.FuncExpr); ok {
		c.env.AddFunction(e.Name.Name)
	}
	return "let " + e.Name.Name + " = " + value + ";\n", nil
}

func (c *Compiler) compileIf(e *ast.IfExpr) (string, error) {
	em := codegen.NewIfEmitter()

	cond, err := c.compileExpr(e.Condition)
	if err != nil {
		return "", err
	}
	em.SetCond(cond)

	body, err := c.scopedBlock(e.Consequence)
	if err != nil {
		return "", err
	}
	em.SetBlock(codegen.Indent(body, 1))

	if e.Alternative != nil {
		alt, err := c.scopedBlock(e.Alternative)
		if err != nil {
			return "", err
		}
		em.SetElse(codegen.Indent(alt, 1))
	}
	return em.Generate(), nil
}

func (c *Compiler) compileWhile(e *ast.WhileExpr) (string, error) {
	em := codegen.NewWhileEmitter()

	cond, err := c.compileExpr(e.Condition)
	if err != nil {
		return "", err
	}
	em.SetCond(cond)

	body, err := c.scopedBlock(e.Body)
	if err != nil {
		return "", err
	}
	em.SetBlock(codegen.Indent(body, 1))
	return em.Generate(), nil
}

// ============================================================================
// 函数
// ============================================================================

func (c *Compiler) compileFunc(e *ast.FuncExpr) (string, error) {
	em := codegen.NewFunctionEmitter()
	if e.Name != nil {
		em.SetName(e.Name.Name)
	}
	for _, p := range e.Params {
		em.SetParam(p.Name)
	}

	outer := c.env
	c.env = outer.Child()
	defer func() { c.env = outer }()

	// 函数名在函数体内可见，支持递归
	if e.Name != nil {
		c.env.AddFunction(e.Name.Name)
		c.env.DeclareType(e.Name.Name, types.TFunction)
	}
	for _, p := range e.Params {
		c.env.DeclareType(p.Name, types.TUnknown)
	}

	var body string
	var err error
	if e.Inline {
		body, err = c.compileInlineBody(e.Body)
	} else {
		body, err = c.compileBlock(e.Body)
	}
	if err != nil {
		return "", err
	}
	em.SetBlock(codegen.Indent(body, 1))
	return em.Generate(), nil
}

// compileInlineBody 单语句函数体：表达式作为返回值
func (c *Compiler) compileInlineBody(block *ast.Block) (string, error) {
	if block.Len() == 0 {
		return "", nil
	}
	stmt, ok := block.Items[0].Stmt.(*ast.ExprStmt)
	if !ok || isStatementOnly(stmt.Expr) {
		return c.compileBlock(block)
	}
	value, err := c.compileExpr(stmt.Expr)
	if err != nil {
		return "", err
	}
	return "return " + value + ";\n", nil
}

func isStatementOnly(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.LetExpr, *ast.IfExpr, *ast.WhileExpr:
		return true
	case *ast.FuncExpr:
		return e.Name != nil
	}
	return false
}

// ============================================================================
// 表达式
// ============================================================================

func (c *Compiler) compileExpr(expr ast.Expression) (string, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxDepth {
		return "", c.errorf(errors.E0009, expr.Pos(), i18n.ErrExprTooDeep, maxDepth)
	}

	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, nil
	case *ast.IntegerLiteral:
		return strconv.FormatInt(int64(e.Value), 10), nil
	case *ast.FloatLiteral:
		return strconv.FormatFloat(e.Value, 'f', -1, 64), nil
	case *ast.StringLiteral:
		return quote(e.Value), nil
	case *ast.BoolLiteral:
		return strconv.FormatBool(e.Value), nil
	case *ast.RegexpLiteral:
		return "/" + e.Pattern + "/" + e.Flags, nil
	case *ast.ArrayLiteral:
		return c.compileArray(e)
	case *ast.HashLiteral:
		return c.compileHash(e)
	case *ast.PrefixExpr:
		right, err := c.compileExpr(e.Right)
		if err != nil {
			return "", err
		}
		return "(" + e.Operator + right + ")", nil
	case *ast.InfixExpr:
		return c.compileInfix(e)
	case *ast.IndexExpr:
		left, err := c.compileExpr(e.Left)
		if err != nil {
			return "", err
		}
		index, err := c.compileExpr(e.Index)
		if err != nil {
			return "", err
		}
		return left + "[" + index + "]", nil
	case *ast.AccessorExpr:
		base, err := c.compileExpr(e.Base)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		sb.WriteString(base)
		for _, id := range e.Chain {
			sb.WriteByte('.')
			sb.WriteString(id.Name)
		}
		return sb.String(), nil
	case *ast.CallExpr:
		return c.compileCall(e)
	case *ast.MacroExpr:
		code, err := c.expandMacro(e)
		return strings.TrimSuffix(code, ";"), err
	case *ast.AssignExpr:
		code, err := c.compileAssign(e)
		return "(" + code + ")", err
	case *ast.FuncExpr:
		return c.compileFunc(e)
	case *ast.LetExpr:
		return "", c.errorf(errors.E0008, e.Pos(), i18n.ErrStatementAsExpr, "let")
	case *ast.IfExpr:
		return "", c.errorf(errors.E0008, e.Pos(), i18n.ErrStatementAsExpr, "if")
	case *ast.WhileExpr:
		return "", c.errorf(errors.E0008, e.Pos(), i18n.ErrStatementAsExpr, "while")
	default:
		panic(fmt.Sprintf("compiler: unexpected expression %T", expr))
	}
}

// jsOperators 与 JavaScript 写法不同的二元运算符
var jsOperators = map[string]string{
	"==": "===",
	"!=": "!==",
	"^":  "**",
}

// compileInfix 沿左侧链迭代编译 a + b + c 这样的运算链，链长不计入嵌套深度
func (c *Compiler) compileInfix(e *ast.InfixExpr) (string, error) {
	chain := []*ast.InfixExpr{e}
	for {
		left, ok := chain[len(chain)-1].Left.(*ast.InfixExpr)
		if !ok {
			break
		}
		chain = append(chain, left)
	}

	code, err := c.compileExpr(chain[len(chain)-1].Left)
	if err != nil {
		return "", err
	}
	for i := len(chain) - 1; i >= 0; i-- {
		right, err := c.compileExpr(chain[i].Right)
		if err != nil {
			return "", err
		}
		op := chain[i].Operator
		if js, ok := jsOperators[op]; ok {
			op = js
		}
		code = "(" + code + " " + op + " " + right + ")"
	}
	return code, nil
}

func (c *Compiler) compileArray(e *ast.ArrayLiteral) (string, error) {
	em := codegen.NewArrayEmitter()
	for _, el := range e.Elements {
		code, err := c.compileExpr(el)
		if err != nil {
			return "", err
		}
		em.AddElement(code)
	}
	return em.Generate(), nil
}

func (c *Compiler) compileHash(e *ast.HashLiteral) (string, error) {
	em := codegen.NewHashEmitter()
	for _, pair := range e.Pairs {
		key, err := c.compileExpr(pair.Key)
		if err != nil {
			return "", err
		}
		value, err := c.compileExpr(pair.Value)
		if err != nil {
			return "", err
		}
		em.AddPair(key, value, isComputedKey(pair.Key))
	}
	return em.Generate(), nil
}

// isComputedKey 字符串和数字字面量之外的键都写成 [key]
func isComputedKey(key ast.Expression) bool {
	switch key.(type) {
	case *ast.StringLiteral, *ast.IntegerLiteral, *ast.FloatLiteral:
		return false
	}
	return true
}

func (c *Compiler) compileCall(e *ast.CallExpr) (string, error) {
	if id, ok := e.Function.(*ast.Ident); ok && !c.env.HasFunction(id.Name) {
		if t := c.env.GetType(id.Name); t.IsKnown() && t.Kind != types.Function {
			return "", c.errorf(errors.E0300, id.Pos(), i18n.ErrNotAFunction, id.Name, t)
		}
	}

	em := codegen.NewCallEmitter()
	callee, err := c.compileExpr(e.Function)
	if err != nil {
		return "", err
	}
	em.SetCallee(callee)
	for _, arg := range e.Arguments {
		code, err := c.compileExpr(arg)
		if err != nil {
			return "", err
		}
		em.AddArg(code)
	}
	return em.Generate(), nil
}

func (c *Compiler) expandMacro(e *ast.MacroExpr) (string, error) {
	kind, ok := macro.Lookup(e.Name)
	if !ok {
		return "", c.errorf(errors.E0400, e.Pos(), i18n.ErrUnknownMacro, e.Name)
	}
	code, ok := kind.Expand(e.Arguments)
	if !ok {
		return "", c.errorf(errors.E0401, e.Pos(), i18n.ErrMacroExpandFailed, e.Name)
	}
	return code, nil
}

// ============================================================================
// 赋值与类型检查
// ============================================================================

// compileAssign 编译赋值，目标是标识符时检查类型环境
func (c *Compiler) compileAssign(e *ast.AssignExpr) (string, error) {
	if id, ok := e.Target.(*ast.Ident); ok {
		if err := c.checkAssign(id, e.Operator, e.Value); err != nil {
			return "", err
		}
	}

	target, err := c.compileExpr(e.Target)
	if err != nil {
		return "", err
	}
	value, err := c.compileExpr(e.Value)
	if err != nil {
		return "", err
	}
	return target + " " + e.Operator.Literal + " " + value, nil
}

func (c *Compiler) checkAssign(id *ast.Ident, op token.Token, value ast.Expression) error {
	declared := c.env.GetType(id.Name)
	valueType := c.typeOf(value)

	if op.Type != token.ASSIGN && declared.IsKnown() {
		allowed := declared.Kind == types.Number ||
			(op.Type == token.PLUS_ASSIGN && declared.Kind == types.String)
		if !allowed {
			return c.errorf(errors.E0205, id.Pos(), i18n.ErrCompoundOperand, op.Literal, id.Name, declared)
		}
	}

	if !c.env.CheckType(id.Name, valueType) {
		return c.errorf(errors.E0200, value.Pos(), i18n.ErrTypeMismatch, valueType, id.Name, declared)
	}
	// 未声明的名称在第一次赋值时记录类型；已声明为 Unknown 的（如参数）保持不变
	if _, declaredBefore := c.env.Lookup(id.Name); !declaredBefore && op.Type == token.ASSIGN {
		c.env.SetType(id.Name, valueType)
	}
	return nil
}

// typeOf 标识符取类型环境中记录的类型，其余表达式按字面量推断
func (c *Compiler) typeOf(expr ast.Expression) types.Type {
	if id, ok := expr.(*ast.Ident); ok {
		return c.env.GetType(id.Name)
	}
	return types.FromExpr(expr)
}

// quote 生成 JavaScript 字符串字面量
//
// uwu 字符串不处理转义，反斜杠、换行和回车需要转义后才能原样保留。
// 字面量中不会出现双引号。
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(s[i])
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
