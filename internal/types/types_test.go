package types

import (
	"testing"

	"github.com/useverto/uwu/internal/ast"
)

func TestGradualEquality(t *testing.T) {
	tests := []struct {
		a, b     Type
		expected bool
	}{
		{TNumber, TNumber, true},
		{TString, TString, true},
		{TBool, TBool, true},
		{TFunction, TFunction, true},
		{TNumber, TString, false},
		{TBool, TFunction, false},
		{TUnknown, TNumber, true},
		{TString, TUnknown, true},
		{TUnknown, TUnknown, true},
		{ArrayOf(TNumber), ArrayOf(TString, TBool), true},
		{ArrayOf(), ArrayOf(TNumber), true},
		{HashOf(Pair{TString, TNumber}), HashOf(), true},
		{ArrayOf(), HashOf(), false},
		{ArrayOf(TNumber), TNumber, false},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.expected {
			t.Errorf("%s == %s: got %v, want %v", tt.a, tt.b, got, tt.expected)
		}
		if got := tt.b.Equal(tt.a); got != tt.expected {
			t.Errorf("%s == %s (swapped): got %v, want %v", tt.b, tt.a, got, tt.expected)
		}
	}
}

func TestFromExpr(t *testing.T) {
	tests := []struct {
		expr     ast.Expression
		expected string
	}{
		{&ast.IntegerLiteral{Value: 1}, "Number"},
		{&ast.FloatLiteral{Value: 1.5}, "Number"},
		{&ast.StringLiteral{Value: "s"}, "String"},
		{&ast.BoolLiteral{Value: true}, "Bool"},
		{&ast.FuncExpr{Body: &ast.Block{}}, "Function"},
		{&ast.Ident{Name: "x"}, "Unknown"},
		{
			&ast.ArrayLiteral{Elements: []ast.Expression{
				&ast.IntegerLiteral{Value: 1},
				&ast.Ident{Name: "y"},
				&ast.ArrayLiteral{},
			}},
			"Array[Number, Unknown, Array[]]",
		},
		{
			&ast.HashLiteral{Pairs: []ast.HashPair{
				{Key: &ast.StringLiteral{Value: "k"}, Value: &ast.BoolLiteral{}},
				{Key: &ast.Ident{Name: "k"}, Value: &ast.StringLiteral{}},
			}},
			"Hash{String: Bool, Unknown: String}",
		},
	}

	for _, tt := range tests {
		if got := FromExpr(tt.expr).String(); got != tt.expected {
			t.Errorf("%T: got %s, want %s", tt.expr, got, tt.expected)
		}
	}
}

func TestEnvFunctions(t *testing.T) {
	env := NewEnv()
	env.AddFunction("print")

	if !env.HasFunction("print") {
		t.Errorf("print should be known")
	}
	if env.HasFunction("other") {
		t.Errorf("other should not be known")
	}

	child := env.Child()
	child.AddFunction("inner")
	if !child.HasFunction("print") || !child.HasFunction("inner") {
		t.Errorf("child should see its own and parent functions")
	}
	if env.HasFunction("inner") {
		t.Errorf("parent should not see child functions")
	}
}

func TestEnvTypes(t *testing.T) {
	env := NewEnv()

	if got := env.GetType("missing"); got.Kind != Unknown {
		t.Errorf("missing: got %s", got)
	}
	if !env.CheckType("missing", TNumber) {
		t.Errorf("unknown names are compatible with everything")
	}

	env.DeclareType("x", TNumber)
	if !env.CheckType("x", TNumber) || env.CheckType("x", TString) {
		t.Errorf("x should be Number")
	}

	child := env.Child()
	if child.GetType("x").Kind != Number {
		t.Errorf("child should see parent declarations")
	}

	// SetType 写回声明所在的作用域
	child.SetType("x", TString)
	if env.GetType("x").Kind != String {
		t.Errorf("SetType should update the declaring scope, got %s", env.GetType("x"))
	}

	// DeclareType 遮蔽父作用域
	child.DeclareType("x", TBool)
	if child.GetType("x").Kind != Bool || env.GetType("x").Kind != String {
		t.Errorf("DeclareType should shadow in the child only")
	}

	child.SetType("fresh", TNumber)
	if _, ok := env.Lookup("fresh"); ok {
		t.Errorf("undeclared SetType should declare in the current scope")
	}
	if child.Parent() != env {
		t.Errorf("Parent mismatch")
	}
}

func TestEnvClone(t *testing.T) {
	env := NewEnv()
	env.DeclareType("x", TNumber)
	env.AddFunction("f")

	clone := env.Clone()
	env.DeclareType("y", TString)
	env.AddFunction("g")

	if _, ok := clone.Lookup("y"); ok || clone.HasFunction("g") {
		t.Error("clone should not see later declarations")
	}
	if !clone.CheckType("x", TNumber) || !clone.HasFunction("f") {
		t.Error("clone lost earlier declarations")
	}
}
