// Package macro 实现固定的、封闭的宏注册表
//
// 宏在编译阶段展开为一段原样输出的目标代码文本。
package macro

import (
	"strings"

	"github.com/useverto/uwu/internal/ast"
)

// Kind 宏的种类
type Kind int

const (
	// Regexp 把标识符或字符串参数展开为正则字面量 /x/;
	Regexp Kind = iota
)

// registry 宏名到种类的映射，只读
var registry = map[string]Kind{
	"regex": Regexp,
}

// Lookup 按名称查找宏
func Lookup(name string) (Kind, bool) {
	k, ok := registry[name]
	return k, ok
}

// Names 返回所有已注册的宏名（用于补全和帮助信息）
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func (k Kind) String() string {
	switch k {
	case Regexp:
		return "regex"
	}
	return "unknown"
}

// Expand 展开宏
//
// 返回:
//   - string: 展开后的目标代码文本
//   - bool: 参数数量或形式不符合要求时为 false
func (k Kind) Expand(args []ast.Expression) (string, bool) {
	switch k {
	case Regexp:
		return expandRegexp(args)
	}
	return "", false
}

func expandRegexp(args []ast.Expression) (string, bool) {
	if len(args) != 1 {
		return "", false
	}

	var pattern string
	switch arg := args[0].(type) {
	case *ast.Ident:
		pattern = arg.Name
	case *ast.StringLiteral:
		pattern = arg.Value
	default:
		return "", false
	}

	var sb strings.Builder
	sb.Grow(len(pattern) + 3)
	sb.WriteByte('/')
	sb.WriteString(pattern)
	sb.WriteString("/;")
	return sb.String(), true
}
