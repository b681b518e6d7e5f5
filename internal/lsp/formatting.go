package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/useverto/uwu/internal/formatter"
)

// formattingEdits 格式化整个文档，返回替换全文的编辑
//
// 文档有语法错误或格式化后没有变化时返回空编辑。
func formattingEdits(doc *Document, base *formatter.Options, opts protocol.FormattingOptions) ([]protocol.TextEdit, error) {
	options := *base

	// 从 LSP 选项转换
	if opts.TabSize > 0 {
		options.IndentSize = int(opts.TabSize)
	}
	if opts.InsertSpaces {
		options.IndentStyle = "spaces"
	} else {
		options.IndentStyle = "tabs"
	}

	formatted, err := formatter.Format(doc.Content, &options)
	if err != nil {
		return []protocol.TextEdit{}, err
	}
	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	edit := protocol.TextEdit{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   doc.End(),
		},
		NewText: formatted,
	}
	return []protocol.TextEdit{edit}, nil
}
