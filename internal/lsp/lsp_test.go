package lsp

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/useverto/uwu/internal/formatter"
)

// ============================================================================
// Document Tests
// ============================================================================

func TestDocumentPositions(t *testing.T) {
	doc := newDocument("file:///a.uwu", "a😀b\nxy", 1)

	tests := []struct {
		offset int
		pos    protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{1, protocol.Position{Line: 0, Character: 1}},
		{5, protocol.Position{Line: 0, Character: 3}},
		{7, protocol.Position{Line: 1, Character: 0}},
		{9, protocol.Position{Line: 1, Character: 2}},
	}

	for _, tt := range tests {
		if got := doc.Position(tt.offset); got != tt.pos {
			t.Errorf("Position(%d): got %v, want %v", tt.offset, got, tt.pos)
		}
		if got := doc.Offset(tt.pos); got != tt.offset {
			t.Errorf("Offset(%v): got %d, want %d", tt.pos, got, tt.offset)
		}
	}

	if got := doc.Offset(protocol.Position{Line: 9, Character: 0}); got != len(doc.Content) {
		t.Errorf("past the end: got %d", got)
	}
	if got := doc.Offset(protocol.Position{Line: 1, Character: 40}); got != len(doc.Content) {
		t.Errorf("past the line end: got %d", got)
	}
}

func TestDocumentManagerChanges(t *testing.T) {
	dm := NewDocumentManager()
	dm.Open("file:///a.uwu", "let x = 1", 1)

	doc := dm.ApplyChanges("file:///a.uwu", []protocol.TextDocumentContentChangeEvent{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 8},
			End:   protocol.Position{Line: 0, Character: 9},
		},
		RangeLength: 1,
		Text:        "42",
	}}, 2)
	if doc == nil || doc.Content != "let x = 42" || doc.Version != 2 {
		t.Fatalf("incremental change: got %+v", doc)
	}

	before := doc.Hash()
	dm.ApplyChanges("file:///a.uwu", []protocol.TextDocumentContentChangeEvent{{Text: "x"}}, 3)
	if doc.Content != "x" || doc.Hash() == before {
		t.Errorf("full change: got %q", doc.Content)
	}

	if dm.ApplyChanges("file:///missing.uwu", nil, 1) != nil {
		t.Error("changes to an unopened document should be ignored")
	}

	dm.Close("file:///a.uwu")
	if dm.Get("file:///a.uwu") != nil {
		t.Error("document should be closed")
	}
}

func TestGetDiagnostics(t *testing.T) {
	doc := newDocument("file:///a.uwu", "let x = 1\nx = \"s\"", 1)

	diags := getDiagnostics(doc)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	d := diags[0]
	if d.Code != "E0200" || d.Source != "uwu" || d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("got %+v", d)
	}
	if d.Range.Start != (protocol.Position{Line: 1, Character: 4}) {
		t.Errorf("range start: got %v", d.Range.Start)
	}

	if diags := getDiagnostics(newDocument("file:///b.uwu", "let y = 2", 1)); len(diags) != 0 {
		t.Errorf("clean document: got %v", diags)
	}
}

func TestFormattingEdits(t *testing.T) {
	base := formatter.DefaultOptions()
	opts := protocol.FormattingOptions{TabSize: 2, InsertSpaces: true}

	edits, err := formattingEdits(newDocument("file:///a.uwu", "let   x=1+2", 1), base, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(edits) != 1 || !strings.HasPrefix(edits[0].NewText, "let x = 1 + 2") {
		t.Fatalf("got %+v", edits)
	}
	if edits[0].Range.End != (protocol.Position{Line: 0, Character: 11}) {
		t.Errorf("edit end: got %v", edits[0].Range.End)
	}

	edits, err = formattingEdits(newDocument("file:///a.uwu", edits[0].NewText, 1), base, opts)
	if err != nil || len(edits) != 0 {
		t.Errorf("formatted document: got %v, %v", edits, err)
	}

	if _, err := formattingEdits(newDocument("file:///a.uwu", "let = ", 1), base, opts); err == nil {
		t.Error("expected a syntax error")
	}
	if base.IndentSize != 4 {
		t.Error("base options must not be modified")
	}
}

// ============================================================================
// Server Tests
// ============================================================================

func TestServerSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientSide, serverSide := net.Pipe()
	srv := NewServer(nil)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, serverSide) }()

	published := make(chan protocol.PublishDiagnosticsParams, 8)
	client := jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide))
	client.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == "textDocument/publishDiagnostics" {
			var p protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &p); err == nil {
				published <- p
			}
		}
		return reply(ctx, nil, nil)
	})
	defer client.Close()

	waitDiagnostics := func() protocol.PublishDiagnosticsParams {
		t.Helper()
		select {
		case p := <-published:
			return p
		case <-ctx.Done():
			t.Fatal("timed out waiting for diagnostics")
			return protocol.PublishDiagnosticsParams{}
		}
	}

	var result map[string]interface{}
	if _, err := client.Call(ctx, "initialize", map[string]interface{}{"processId": 1}, &result); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, ok := result["capabilities"]; !ok {
		t.Fatalf("initialize result: %v", result)
	}
	if err := client.Notify(ctx, "initialized", map[string]interface{}{}); err != nil {
		t.Fatal(err)
	}

	const docURI = "file:///tmp/main.uwu"
	err := client.Notify(ctx, "textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        docURI,
			"languageId": "uwu",
			"version":    1,
			"text":       "let x = 1\nx = \"s\"",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p := waitDiagnostics(); len(p.Diagnostics) != 1 || p.Diagnostics[0].Code != "E0200" {
		t.Fatalf("didOpen diagnostics: got %+v", p)
	}

	err = client.Notify(ctx, "textDocument/didChange", map[string]interface{}{
		"textDocument":   map[string]interface{}{"uri": docURI, "version": 2},
		"contentChanges": []map[string]interface{}{{"text": "let x=1"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p := waitDiagnostics(); len(p.Diagnostics) != 0 {
		t.Fatalf("didChange diagnostics: got %+v", p)
	}

	var edits []protocol.TextEdit
	_, err = client.Call(ctx, "textDocument/formatting", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": docURI},
		"options":      map[string]interface{}{"tabSize": 4, "insertSpaces": true},
	}, &edits)
	if err != nil {
		t.Fatalf("formatting: %v", err)
	}
	if len(edits) != 1 || !strings.HasPrefix(edits[0].NewText, "let x = 1") {
		t.Errorf("formatting edits: got %+v", edits)
	}

	var ignored interface{}
	if _, err := client.Call(ctx, "textDocument/hover", map[string]interface{}{}, &ignored); err == nil {
		t.Error("expected method not found")
	}

	if _, err := client.Call(ctx, "shutdown", nil, &ignored); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := client.Notify(ctx, "exit", nil); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("server did not exit")
	}
}
