// Package types 实现渐进式的类型簿记
//
// 类型信息不挂在 AST 节点上，而是按标识符名记录在 Env 中，
// 编译器通过它发现明显的类型冲突。Unknown 与任何类型都相容。
package types

import (
	"strings"

	"github.com/useverto/uwu/internal/ast"
)

// Kind 类型种类
type Kind int

const (
	Unknown Kind = iota
	String
	Number
	Bool
	Array
	Hash
	Function
)

var kindNames = map[Kind]string{
	Unknown:  "Unknown",
	String:   "String",
	Number:   "Number",
	Bool:     "Bool",
	Array:    "Array",
	Hash:     "Hash",
	Function: "Function",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// Type 一个类型
//
// Elems 仅对 Array 有意义，Pairs 仅对 Hash 有意义。
type Type struct {
	Kind  Kind
	Elems []Type
	Pairs []Pair
}

// Pair 哈希键值对的类型
type Pair struct {
	Key   Type
	Value Type
}

// 常用的基础类型
var (
	TUnknown  = Type{Kind: Unknown}
	TString   = Type{Kind: String}
	TNumber   = Type{Kind: Number}
	TBool     = Type{Kind: Bool}
	TFunction = Type{Kind: Function}
)

// ArrayOf 构造数组类型
func ArrayOf(elems ...Type) Type {
	return Type{Kind: Array, Elems: elems}
}

// HashOf 构造哈希类型
func HashOf(pairs ...Pair) Type {
	return Type{Kind: Hash, Pairs: pairs}
}

// Equal 渐进式相等
//
// 任意一侧为 Unknown 即相等；Array 与任意 Array 相等，Hash 与任意 Hash 相等，
// 不比较元素和键值对的类型。
func (t Type) Equal(other Type) bool {
	if t.Kind == Unknown || other.Kind == Unknown {
		return true
	}
	return t.Kind == other.Kind
}

// IsKnown 是否为具体类型
func (t Type) IsKnown() bool {
	return t.Kind != Unknown
}

func (t Type) String() string {
	switch t.Kind {
	case Array:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "Array[" + strings.Join(parts, ", ") + "]"
	case Hash:
		parts := make([]string, len(t.Pairs))
		for i, p := range t.Pairs {
			parts[i] = p.Key.String() + ": " + p.Value.String()
		}
		return "Hash{" + strings.Join(parts, ", ") + "}"
	default:
		return t.Kind.String()
	}
}

// FromExpr 推断表达式的类型
//
// 只推断字面量和函数字面量；其余表达式一律为 Unknown。
// 数组元素和哈希键值中的非字面量同样记为 Unknown。
func FromExpr(expr ast.Expression) Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral:
		return TNumber
	case *ast.StringLiteral:
		return TString
	case *ast.BoolLiteral:
		return TBool
	case *ast.FuncExpr:
		return TFunction
	case *ast.ArrayLiteral:
		elems := make([]Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = FromExpr(el)
		}
		return ArrayOf(elems...)
	case *ast.HashLiteral:
		pairs := make([]Pair, len(e.Pairs))
		for i, p := range e.Pairs {
			pairs[i] = Pair{Key: FromExpr(p.Key), Value: FromExpr(p.Value)}
		}
		return HashOf(pairs...)
	default:
		return TUnknown
	}
}
