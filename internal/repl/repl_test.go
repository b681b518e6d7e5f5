package repl

import (
	"bytes"
	"strings"
	"testing"
)

func newTestREPL() (*REPL, *bytes.Buffer) {
	var out bytes.Buffer
	return New(DefaultConfig(), &out), &out
}

func TestEvalPrintsJavaScript(t *testing.T) {
	r, out := newTestREPL()
	if quit := r.Eval("let x = 1 + 2"); quit {
		t.Fatal("unexpected quit")
	}
	if got := out.String(); got != "let x = (1 + 2);\n" {
		t.Errorf("got %q", got)
	}
}

func TestEvalKeepsDeclarations(t *testing.T) {
	r, out := newTestREPL()
	r.Eval("let n = 1")
	out.Reset()

	r.Eval("n(2)")
	if !strings.Contains(out.String(), "error[E0300]") {
		t.Errorf("got %q", out.String())
	}

	out.Reset()
	r.Eval(":reset")
	r.Eval("n(2)")
	if !strings.HasSuffix(out.String(), "n(2);\n") {
		t.Errorf("after reset: got %q", out.String())
	}
}

func TestEvalFailedInputLeavesNoDeclarations(t *testing.T) {
	r, out := newTestREPL()
	r.Eval("let x = \"s\"\nlet y = 1\ny = \"bad\"")
	if !strings.Contains(out.String(), "error[E0200]") {
		t.Fatalf("got %q", out.String())
	}

	out.Reset()
	r.Eval("x = 1")
	if got := out.String(); got != "x = 1;\n" {
		t.Errorf("got %q", got)
	}
}

func TestEvalDiagnostics(t *testing.T) {
	r, out := newTestREPL()
	r.Eval("let = 1")
	if !strings.HasPrefix(out.String(), "<repl>:1:1: error[E0007]: ") {
		t.Errorf("got %q", out.String())
	}
}

func TestCommands(t *testing.T) {
	r, out := newTestREPL()

	if r.Eval(":help") {
		t.Error(":help should not quit")
	}
	if !strings.Contains(out.String(), ":reset") {
		t.Errorf("help: got %q", out.String())
	}

	out.Reset()
	if r.Eval(":bogus") {
		t.Error("unknown command should not quit")
	}
	if !strings.Contains(out.String(), ":bogus") {
		t.Errorf("unknown command: got %q", out.String())
	}

	if !r.Eval(":quit") || !r.Eval("  :q  ") {
		t.Error(":quit should quit")
	}
}

func TestHistory(t *testing.T) {
	r, _ := newTestREPL()
	r.Eval("1")
	r.Eval("1")
	r.Eval("2")
	r.Eval(":help")
	if got := r.History(); len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("got %v", got)
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"let x = 1", false},
		{"fn f(a) {", true},
		{"fn f(a) {\n return a\n}", false},
		{"if (a):", true},
		{"if (a): b end", false},
		{"while (a): if (b): c end", true},
		{"[1, 2", true},
		{`"open`, true},
		{`"closed"`, false},
		{`"`, true},
		{"# comment (", false},
	}

	for _, tt := range tests {
		if got := needsMoreInput(tt.input); got != tt.expected {
			t.Errorf("needsMoreInput(%q): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}
