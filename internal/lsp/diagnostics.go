package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/useverto/uwu"
	"github.com/useverto/uwu/internal/errors"
)

// diagnosticSource 诊断来源
const diagnosticSource = "uwu"

// getDiagnostics 编译文档并把诊断转换为 LSP 格式
func getDiagnostics(doc *Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.TooLarge() {
		return diagnostics
	}

	for _, d := range uwu.Check(doc.Content) {
		diagnostics = append(diagnostics, toProtocolDiagnostic(doc, d))
	}
	return diagnostics
}

// toProtocolDiagnostic 将诊断转换为 LSP 诊断
func toProtocolDiagnostic(doc *Document, d errors.Diagnostic) protocol.Diagnostic {
	end := d.End
	if end < d.Offset {
		end = d.Offset
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: doc.Position(d.Offset),
			End:   doc.Position(end),
		},
		Severity: severityOf(d.Level),
		Code:     d.Code,
		Source:   diagnosticSource,
		Message:  d.Message,
	}
}

func severityOf(level errors.Level) protocol.DiagnosticSeverity {
	switch level {
	case errors.LevelWarning:
		return protocol.DiagnosticSeverityWarning
	case errors.LevelNote:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}
