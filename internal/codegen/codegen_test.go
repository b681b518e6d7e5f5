package codegen

import "testing"

func TestFunctionEmitter(t *testing.T) {
	tests := []struct {
		name     string
		build    func(e *FunctionEmitter)
		expected string
	}{
		{
			"named with params",
			func(e *FunctionEmitter) {
				e.SetName("add")
				e.SetParam("a")
				e.SetParam("b")
				e.SetBlock("  return (a + b);\n")
			},
			"function add(a, b) {\n  return (a + b);\n}",
		},
		{
			"named without params",
			func(e *FunctionEmitter) {
				e.SetName("main")
				e.SetBlock("  x;\n")
			},
			"function main() {\n  x;\n}",
		},
		{
			"anonymous",
			func(e *FunctionEmitter) {
				e.SetParam("x")
				e.SetBlock("")
			},
			"function(x) {\n}",
		},
		{
			"name after params is ignored",
			func(e *FunctionEmitter) {
				e.SetParam("x")
				e.SetName("late")
				e.SetBlock("")
			},
			"function(x) {\n}",
		},
		{
			"missing block is completed",
			func(e *FunctionEmitter) {
				e.SetName("f")
			},
			"function f() {\n}",
		},
		{
			"ops after block are ignored",
			func(e *FunctionEmitter) {
				e.SetBlock("")
				e.SetParam("x")
				e.SetBlock("  y;\n")
			},
			"function() {\n}",
		},
	}

	for _, tt := range tests {
		e := NewFunctionEmitter()
		tt.build(e)
		if got := e.Generate(); got != tt.expected {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.expected)
		}
		if got := e.Generate(); got != tt.expected {
			t.Errorf("%s: second Generate changed output to %q", tt.name, got)
		}
	}
}

func TestIfEmitter(t *testing.T) {
	tests := []struct {
		name     string
		build    func(e *IfEmitter)
		expected string
	}{
		{
			"with else",
			func(e *IfEmitter) {
				e.SetCond("(a < b)")
				e.SetBlock("  a;\n")
				e.SetElse("  b;\n")
			},
			"if ((a < b)) {\n  a;\n} else {\n  b;\n}",
		},
		{
			"without else",
			func(e *IfEmitter) {
				e.SetCond("ok")
				e.SetBlock("  go();\n")
			},
			"if (ok) {\n  go();\n}",
		},
		{
			"else before block is ignored",
			func(e *IfEmitter) {
				e.SetCond("ok")
				e.SetElse("  lost;\n")
				e.SetBlock("")
			},
			"if (ok) {\n}",
		},
		{
			"empty emitter",
			func(e *IfEmitter) {},
			"if (undefined) {\n}",
		},
	}

	for _, tt := range tests {
		e := NewIfEmitter()
		tt.build(e)
		if got := e.Generate(); got != tt.expected {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestIfEmitterElseAfterGenerate(t *testing.T) {
	e := NewIfEmitter()
	e.SetCond("x")
	e.SetBlock("")
	first := e.Generate()
	e.SetElse("  y;\n")
	if got := e.Generate(); got != first {
		t.Errorf("got %q, want %q", got, first)
	}
}

func TestWhileEmitter(t *testing.T) {
	e := NewWhileEmitter()
	e.SetBlock("  lost;\n")
	e.SetCond("(i < 10)")
	e.SetBlock("  i += 1;\n")
	if got, want := e.Generate(), "while ((i < 10)) {\n  i += 1;\n}"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got, want := NewWhileEmitter().Generate(), "while (undefined) {\n}"; got != want {
		t.Errorf("empty: got %q, want %q", got, want)
	}
}

func TestCallEmitter(t *testing.T) {
	e := NewCallEmitter()
	e.AddArg("lost")
	e.SetCallee("print")
	e.AddArg("1")
	e.AddArg(`"two"`)
	if got, want := e.Generate(), `print(1, "two")`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e = NewCallEmitter()
	e.SetCallee("f")
	if got, want := e.Generate(), "f()"; got != want {
		t.Errorf("no args: got %q, want %q", got, want)
	}
	if got := e.Generate(); got != "f()" {
		t.Errorf("second Generate: got %q", got)
	}
}

func TestArrayAndHashEmitters(t *testing.T) {
	a := NewArrayEmitter()
	if got := NewArrayEmitter().Generate(); got != "[]" {
		t.Errorf("empty array: got %q", got)
	}
	a.AddElement("1")
	a.AddElement("2")
	if got, want := a.Generate(), "[1, 2]"; got != want {
		t.Errorf("array: got %q, want %q", got, want)
	}
	a.AddElement("3")
	if got := a.Generate(); got != "[1, 2]" {
		t.Errorf("array element after Generate: got %q", got)
	}

	h := NewHashEmitter()
	h.AddPair(`"a"`, "1", false)
	h.AddPair("key", "true", true)
	if got, want := h.Generate(), `{"a": 1, [key]: true}`; got != want {
		t.Errorf("hash: got %q, want %q", got, want)
	}
	if got := NewHashEmitter().Generate(); got != "{}" {
		t.Errorf("empty hash: got %q", got)
	}
}

func TestCursorRejectsUnknownEdges(t *testing.T) {
	c := newCursor(whileTable)
	if _, ok := c.Step(OpBlock); ok {
		t.Fatal("OpBlock from Start should be rejected")
	}
	if c.State() != StateStart {
		t.Errorf("state moved to %s", c.State())
	}
	from, ok := c.Step(OpCond)
	if !ok || from != StateStart || c.State() != StateCond {
		t.Errorf("got (%s, %v), state %s", from, ok, c.State())
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		text     string
		level    int
		expected string
	}{
		{"a;\nb;\n", 1, "  a;\n  b;\n"},
		{"a;\n\nb;\n", 2, "    a;\n\n    b;\n"},
		{"a;", 1, "  a;"},
		{"", 3, ""},
		{"a;\n", 0, "a;\n"},
	}

	for _, tt := range tests {
		if got := Indent(tt.text, tt.level); got != tt.expected {
			t.Errorf("Indent(%q, %d): got %q, want %q", tt.text, tt.level, got, tt.expected)
		}
	}
}

var _ = []Emitter{
	NewFunctionEmitter(), NewIfEmitter(), NewWhileEmitter(),
	NewCallEmitter(), NewArrayEmitter(), NewHashEmitter(),
}
