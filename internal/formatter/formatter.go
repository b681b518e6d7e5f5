// Package formatter 把 uwu 源码重新打印为统一风格
//
// 输出重新解析后得到与原程序结构相同的语法树（空语句除外，格式化时丢弃）。
package formatter

import (
	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/parser"
)

// Format 格式化源代码
//
// 源码有语法错误时不做任何修改，返回合并后的错误。
func Format(source string, options *Options) (string, error) {
	program, errs := parser.Parse(source)
	if len(errs) > 0 {
		return "", errs.Err()
	}
	return FormatProgram(program, options), nil
}

// FormatProgram 打印已解析的程序
func FormatProgram(program *ast.Program, options *Options) string {
	if options == nil {
		options = DefaultOptions()
	}
	return NewPrinter(options).Print(program)
}
