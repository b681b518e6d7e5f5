package formatter

import (
	"testing"

	"github.com/useverto/uwu/internal/ast"
	"github.com/useverto/uwu/internal/parser"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let   x=1+2*3", "let x = 1 + 2 * 3;\n"},
		{"(1 + 2) * 3", "(1 + 2) * 3;\n"},
		{"a - (b - c)", "a - (b - c);\n"},
		{"(a - b) - c", "a - b - c;\n"},
		{"-(a + b)", "-(a + b);\n"},
		{"(-a)[0]", "(-a)[0];\n"},
		{"a[0] = 5; x += 1", "a[0] = 5;\nx += 1;\n"},
		{`{"k": [1, 2]}`, "{\"k\": [1, 2]};\n"},
		{`/a\/b/g`, "/a\\/b/g;\n"},
		{`regex!("ab")`, "regex!(\"ab\");\n"},
		{"1.0", "1.0;\n"},
		{";;x", "x;\n"},
		{"", ""},
		{
			"if (a): b else: c end",
			"if (a):\n    b;\nelse:\n    c;\nend\n",
		},
		{"if(true): end", "if (true): end\n"},
		{
			"while (i < 3): i += 1 end",
			"while (i < 3):\n    i += 1;\nend\n",
		},
		{
			"fn add(a,b){return a+b}",
			"fn add(a, b) {\n    return a + b;\n}\n",
		},
		{"fn d(x): x*2", "fn d(x): x * 2;\n"},
		{"fn f() {}", "fn f() {}\n"},
		{
			"fn f() { while (a): if (b): return 1 end end }",
			"fn f() {\n    while (a):\n        if (b):\n            return 1;\n        end\n    end\n}\n",
		},
	}

	for _, tt := range tests {
		got, err := Format(tt.input, nil)
		if err != nil {
			t.Errorf("input %q: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("input %q:\ngot  %q\nwant %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatSeparatesContinuations(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"if (a): b end; -1", "if (a):\n    b;\nend;\n-1;\n"},
		{"fn f() {}; [1]", "fn f() {};\n[1];\n"},
		{"while (a): end x", "while (a):\nend\nx;\n"},
		{"let f = fn(x): x;; [1]", "let f = fn(x): x;;\n[1];\n"},
	}

	for _, tt := range tests {
		got, err := Format(tt.input, nil)
		if err != nil {
			t.Errorf("input %q: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("input %q:\ngot  %q\nwant %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatTabs(t *testing.T) {
	opts := DefaultOptions()
	opts.IndentStyle = "tabs"

	got, err := Format("fn f() { return 1 }", opts)
	if err != nil {
		t.Fatal(err)
	}
	if want := "fn f() {\n\treturn 1;\n}\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSyntaxError(t *testing.T) {
	if _, err := Format("let = 1", nil); err == nil {
		t.Error("expected a syntax error")
	}
}

func stripBlanks(program *ast.Program) string {
	stripped := &ast.Program{}
	for _, item := range program.Items {
		if _, ok := item.Stmt.(*ast.BlankStmt); !ok {
			stripped.Append(item.Stmt, item.Offset)
		}
	}
	return stripped.String()
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"let x = 1 + 2 * 3 - 4 / 5",
		"a == (b < c)",
		"(a == b) == c",
		"a ^ b % c * d",
		"-x * -(y + 1)",
		"!(a == b)",
		"a + (b = 1)",
		"(x = 1) + 2",
		"f(a, [1, 2], {k: v})",
		"console.log(a.b.c[0])",
		"(a + b).c",
		"x = y = 3",
		"let f = fn(a, b): a + b",
		"map(fn(x): x * 2, xs)",
		"(fn(x): x) + 1",
		"fn fact(n) { if (n < 2): return 1 end; return n * fact(n - 1) }",
		"if (a): b else: if (c): d end end",
		"while (i < 10): i += 1; if (i == 5): print(i) end end",
		`let r = regex!("ab"); /x+/gi`,
		`{"a": [1, {b: 2}], [1]: c}`,
		"fn f() {}; [1]; if (a): end; -2",
		"let g = fn(x): x;; (1)",
	}

	for _, input := range inputs {
		original, errs := parser.Parse(input)
		if len(errs) > 0 {
			t.Fatalf("input %q: %v", input, errs.Err())
		}

		formatted := FormatProgram(original, nil)
		reparsed, errs := parser.Parse(formatted)
		if len(errs) > 0 {
			t.Errorf("input %q: formatted output %q does not parse: %v", input, formatted, errs.Err())
			continue
		}
		if got, want := stripBlanks(reparsed), stripBlanks(original); got != want {
			t.Errorf("input %q: tree changed\nformatted %q\ngot  %s\nwant %s", input, formatted, got, want)
		}

		again := FormatProgram(reparsed, nil)
		if again != formatted {
			t.Errorf("input %q: not idempotent\nfirst  %q\nsecond %q", input, formatted, again)
		}
	}
}
