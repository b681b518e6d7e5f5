package formatter

import (
	"strconv"
	"strings"

	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/parser"
)

// Printer AST 打印器
type Printer struct {
	options *Options
	buf     strings.Builder
	indent  int
}

// NewPrinter 创建打印器
func NewPrinter(options *Options) *Printer {
	return &Printer{options: options}
}

// Print 打印 AST 并返回格式化的代码
func (p *Printer) Print(program *ast.Program) string {
	p.printItems(&program.Block)

	result := p.buf.String()

	// 移除行尾空格
	if p.options.RemoveTrailingSpace {
		lines := strings.Split(result, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		result = strings.Join(lines, "\n")
	}

	// 确保文件末尾有换行符
	if p.options.EnsureNewlineAtEOF && result != "" && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result
}

// ============================================================================
// 语句
// ============================================================================

// printItems 每条语句一行
//
// 换行不是语句终止符：下一条语句以可能被当作中缀运算的字符开头时，
// 以 end 或 } 结尾的语句也要补上分号。
func (p *Printer) printItems(block *ast.Block) {
	if block == nil {
		return
	}

	var stmts []ast.Statement
	for _, item := range block.Items {
		if _, ok := item.Stmt.(*ast.BlankStmt); !ok {
			stmts = append(stmts, item.Stmt)
		}
	}

	texts := make([]string, len(stmts))
	for i, stmt := range stmts {
		texts[i] = p.render(func(q *Printer) { q.printStatement(stmt) })
	}

	for i, stmt := range stmts {
		continues := i+1 < len(texts) && continuesExpression(texts[i+1])

		p.writeIndent()
		p.write(texts[i])
		if needsTerminator(stmt) || continues {
			p.write(";")
		}
		if continues && endsWithInlineFunc(stmt) {
			// 第一个分号属于单语句函数体
			p.write(";")
		}
		p.writeln()
	}
}

// render 用同样的缩进级别把内容打印到独立的缓冲区
func (p *Printer) render(f func(q *Printer)) string {
	q := &Printer{options: p.options, indent: p.indent}
	f(q)
	return q.buf.String()
}

func (p *Printer) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		p.write("return ")
		p.printExpr(s.Value, parser.Lowest)
	case *ast.ExprStmt:
		p.printExpr(s.Expr, parser.Lowest)
	}
}

// needsTerminator 以 end 或 } 结尾的语句不需要分号
func needsTerminator(stmt ast.Statement) bool {
	es, ok := stmt.(*ast.ExprStmt)
	if !ok {
		return true
	}
	switch e := es.Expr.(type) {
	case *ast.IfExpr, *ast.WhileExpr:
		return false
	case *ast.FuncExpr:
		return e.Inline
	}
	return true
}

// continuesExpression 以这些字符开头的语句会被解析为上一条语句的延续
func continuesExpression(text string) bool {
	return text != "" && strings.IndexByte("+-*/^%=<>[(.", text[0]) >= 0
}

// endsWithInlineFunc 语句是否以单语句函数结尾
func endsWithInlineFunc(stmt ast.Statement) bool {
	var expr ast.Expression
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		expr = s.Expr
	case *ast.ReturnStmt:
		expr = s.Value
	}
	for expr != nil {
		switch e := expr.(type) {
		case *ast.FuncExpr:
			return e.Inline
		case *ast.LetExpr:
			expr = e.Value
		case *ast.AssignExpr:
			expr = e.Value
		case *ast.InfixExpr:
			expr = e.Right
		case *ast.PrefixExpr:
			expr = e.Right
		default:
			return false
		}
	}
	return false
}

// ============================================================================
// 表达式
// ============================================================================

// precedenceOf 表达式作为操作数时的结合强度
//
// let、赋值和单语句函数会吞掉其后的所有中缀运算，作为操作数时总要加括号。
func precedenceOf(expr ast.Expression) parser.Precedence {
	switch e := expr.(type) {
	case *ast.InfixExpr:
		return parser.PrecedenceOf(e.Token.Type)
	case *ast.PrefixExpr:
		return parser.Prefix
	case *ast.LetExpr, *ast.AssignExpr:
		return parser.Lowest
	case *ast.FuncExpr:
		if e.Inline {
			return parser.Lowest
		}
	}
	return parser.Assign
}

// printExpr 打印表达式，结合强度低于 need 时加括号
func (p *Printer) printExpr(expr ast.Expression, need parser.Precedence) {
	if precedenceOf(expr) < need {
		p.write("(")
		p.printBare(expr)
		p.write(")")
		return
	}
	p.printBare(expr)
}

func (p *Printer) printBare(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Ident:
		p.write(e.Name)
	case *ast.IntegerLiteral:
		p.write(strconv.FormatInt(int64(e.Value), 10))
	case *ast.FloatLiteral:
		p.write(ast.FormatFloat(e.Value))
	case *ast.StringLiteral:
		p.write(`"` + e.Value + `"`)
	case *ast.BoolLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.RegexpLiteral:
		p.write("/" + e.Pattern + "/" + e.Flags)
	case *ast.ArrayLiteral:
		p.write("[")
		p.printList(e.Elements)
		p.write("]")
	case *ast.HashLiteral:
		p.write("{")
		for i, pair := range e.Pairs {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(pair.Key, parser.Lowest)
			p.write(": ")
			p.printExpr(pair.Value, parser.Lowest)
		}
		p.write("}")
	case *ast.PrefixExpr:
		p.write(e.Operator)
		p.printExpr(e.Right, parser.Prefix)
	case *ast.InfixExpr:
		prec := parser.PrecedenceOf(e.Token.Type)
		// 左结合：左侧同级不加括号，右侧同级加括号
		p.printExpr(e.Left, prec)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec+1)
	case *ast.IndexExpr:
		p.printExpr(e.Left, parser.Call)
		p.write("[")
		p.printExpr(e.Index, parser.Lowest)
		p.write("]")
	case *ast.AccessorExpr:
		p.printExpr(e.Base, parser.Call)
		for _, id := range e.Chain {
			p.write("." + id.Name)
		}
	case *ast.CallExpr:
		p.printBare(e.Function)
		p.write("(")
		p.printList(e.Arguments)
		p.write(")")
	case *ast.MacroExpr:
		p.write(e.Name + "!(")
		p.printList(e.Arguments)
		p.write(")")
	case *ast.LetExpr:
		p.write("let " + e.Name.Name + " = ")
		p.printExpr(e.Value, parser.Lowest)
	case *ast.AssignExpr:
		p.printBare(e.Target)
		p.write(" " + e.Operator.Literal + " ")
		p.printExpr(e.Value, parser.Lowest)
	case *ast.IfExpr:
		p.printIf(e)
	case *ast.WhileExpr:
		p.write("while (")
		p.printExpr(e.Condition, parser.Lowest)
		p.write("):")
		p.printKeywordBlock(e.Body)
		p.write("end")
	case *ast.FuncExpr:
		p.printFunc(e)
	}
}

func (p *Printer) printList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, parser.Lowest)
	}
}

func (p *Printer) printIf(e *ast.IfExpr) {
	p.write("if (")
	p.printExpr(e.Condition, parser.Lowest)
	p.write("):")
	if e.Consequence.Len() == 0 && e.Alternative == nil {
		p.write(" end")
		return
	}
	p.printKeywordBlock(e.Consequence)
	if e.Alternative != nil {
		p.write("else:")
		p.printKeywordBlock(e.Alternative)
	}
	p.write("end")
}

// printKeywordBlock 打印 ":" 之后的代码块，结束时停在下一行的缩进处
func (p *Printer) printKeywordBlock(block *ast.Block) {
	p.writeln()
	p.indent++
	p.printItems(block)
	p.indent--
	p.writeIndent()
}

func (p *Printer) printFunc(e *ast.FuncExpr) {
	p.write("fn")
	if e.Name != nil {
		p.write(" " + e.Name.Name)
	}
	p.write("(")
	for i, param := range e.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name)
	}
	p.write(")")

	if e.Inline {
		p.write(": ")
		if e.Body.Len() > 0 {
			p.printStatement(e.Body.Items[0].Stmt)
		}
		return
	}

	if e.Body.Len() == 0 {
		p.write(" {}")
		return
	}
	p.write(" {")
	p.writeln()
	p.indent++
	p.printItems(e.Body)
	p.indent--
	p.writeIndent()
	p.write("}")
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeln() {
	p.buf.WriteByte('\n')
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.options.IndentString(), p.indent))
}
