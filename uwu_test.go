package uwu

import (
	"strings"
	"testing"

	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/compiler"
	"github.com/useverto/uwu/internal/errors"
	"github.com/useverto/uwu/internal/token"
	"go.uber.org/multierr"
)

func TestTokenize(t *testing.T) {
	next := Tokenize("let x")
	for _, want := range []token.TokenType{token.LET, token.IDENT, token.EOF, token.EOF} {
		if tok := next(); tok.Type != want {
			t.Fatalf("got %s, want %s", tok.Type, want)
		}
	}

	if n := len(Tokens("a + b")); n != 4 {
		t.Errorf("Tokens: got %d tokens, want 4", n)
	}
}

func TestParseLiterals(t *testing.T) {
	for _, input := range []string{"0", "7", "2147483647", "3.5", "0.25"} {
		program, errs := Parse(input)
		if len(errs) > 0 {
			t.Fatalf("input %q: %v", input, errs.Err())
		}
		if program.Len() != 1 {
			t.Fatalf("input %q: got %d statements", input, program.Len())
		}
		stmt := program.Items[0].Stmt.(*ast.ExprStmt)
		if got := stmt.Expr.String(); got != input {
			t.Errorf("got %q, want %q", got, input)
		}
	}
}

func TestCompile(t *testing.T) {
	out, err := Compile("let x = 1 + 2; if (x == 3): print(x) end")
	if err != nil {
		t.Fatal(err)
	}
	want := "let x = (1 + 2);\nif ((x === 3)) {\n  print(x);\n}\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestCompileParseErrorsAreFolded(t *testing.T) {
	_, err := Compile("let = 1; (1 + 2)(3)")
	if err == nil {
		t.Fatal("expected parse errors")
	}
	if n := len(multierr.Errors(err)); n < 2 {
		t.Errorf("got %d folded errors, want at least 2: %v", n, err)
	}
}

func TestCompileReturnsCompilerError(t *testing.T) {
	_, err := Compile("nope!(1)")
	if _, ok := err.(*compiler.Error); !ok {
		t.Fatalf("got %T (%v), want *compiler.Error", err, err)
	}
}

func TestCheckDiagnostics(t *testing.T) {
	tests := []struct {
		input  string
		code   string
		offset int
	}{
		{"let x = 1\nx = \"s\"", errors.E0200, 14},
		{"a @ b", errors.E0002, 2},
		{"99999999999", errors.E0005, 0},
		{"let = 1", errors.E0007, 0},
	}

	for _, tt := range tests {
		diags := Check(tt.input)
		if len(diags) == 0 {
			t.Errorf("input %q: expected diagnostics", tt.input)
			continue
		}
		d := diags[0]
		if d.Code != tt.code || d.Offset != tt.offset {
			t.Errorf("input %q: got %s at %d, want %s at %d (%s)", tt.input, d.Code, d.Offset, tt.code, tt.offset, d.Message)
		}
	}

	if diags := Check("fn f(x): x * 2"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics %v", diags)
	}
}

func TestDiagnosticFormat(t *testing.T) {
	source := "let x = 1\nx = \"s\""
	d := Check(source)[0]
	got := d.Format("main.uwu", source)
	if !strings.HasPrefix(got, "main.uwu:2:5: error[E0200]: ") {
		t.Errorf("got %q", got)
	}
}

func TestSession(t *testing.T) {
	s := NewSession()
	if _, diags := s.Compile("let n = 1"); diags != nil {
		t.Fatal(diags)
	}
	if _, diags := s.Compile("n(1)"); len(diags) != 1 || diags[0].Code != errors.E0300 {
		t.Errorf("got %v, want E0300", diags)
	}

	s.Reset()
	if out, diags := s.Compile("n(1)"); diags != nil || out != "n(1);\n" {
		t.Errorf("after reset: got (%q, %v)", out, diags)
	}
}
