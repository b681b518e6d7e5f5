package macro

import (
	"testing"

	"github.com/useverto/uwu/internal/ast"
)

func TestLookup(t *testing.T) {
	k, ok := Lookup("regex")
	if !ok || k != Regexp {
		t.Fatalf("regex: got %v, %v", k, ok)
	}
	if _, ok := Lookup("unknown"); ok {
		t.Errorf("unknown macro should not resolve")
	}
	if names := Names(); len(names) != 1 || names[0] != "regex" {
		t.Errorf("names: got %v", names)
	}
}

func TestExpandRegexp(t *testing.T) {
	tests := []struct {
		name     string
		args     []ast.Expression
		expected string
		ok       bool
	}{
		{"string", []ast.Expression{&ast.StringLiteral{Value: "ab"}}, "/ab/;", true},
		{"ident", []ast.Expression{&ast.Ident{Name: "abc"}}, "/abc/;", true},
		{"extra args", []ast.Expression{&ast.StringLiteral{Value: "x"}, &ast.StringLiteral{Value: "y"}}, "", false},
		{"no args", nil, "", false},
		{"number arg", []ast.Expression{&ast.IntegerLiteral{Value: 1}}, "", false},
		{"array arg", []ast.Expression{&ast.ArrayLiteral{}}, "", false},
	}

	for _, tt := range tests {
		got, ok := Regexp.Expand(tt.args)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", tt.name, got, ok, tt.expected, tt.ok)
		}
	}
}
