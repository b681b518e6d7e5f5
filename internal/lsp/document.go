package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/segmentio/asm/ascii"
	"go.lsp.dev/protocol"

	"github.com/useverto/uwu/internal/compiler"
)

// maxDocumentSize 文档大小限制（500KB），超出的文档不做诊断
const maxDocumentSize = 500 * 1024

// Document 表示一个打开的文档
type Document struct {
	URI     protocol.DocumentURI
	Content string
	Version int32

	lines []int  // 每行起始的字节偏移
	hash  string // 内容指纹，内容未变化时跳过重复诊断
}

func newDocument(uri protocol.DocumentURI, content string, version int32) *Document {
	doc := &Document{URI: uri, Version: version}
	doc.setContent(content)
	return doc
}

func (d *Document) setContent(content string) {
	d.Content = content
	d.lines = lineStarts(content)
	d.hash = compiler.ContentHash(content)
}

// Hash 返回内容指纹
func (d *Document) Hash() string {
	return d.hash
}

// TooLarge 文档是否超出大小限制
func (d *Document) TooLarge() bool {
	return len(d.Content) > maxDocumentSize
}

// ============================================================================
// 位置转换
// ============================================================================
//
// LSP 的列号以 UTF-16 码元计算，uwu 内部一律使用字节偏移。
// 纯 ASCII 的行两者相同，直接返回。

// Offset 把 LSP 位置转换为字节偏移，超出范围时截断
func (d *Document) Offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(d.lines) {
		return len(d.Content)
	}
	start := d.lines[line]
	text := d.lineText(line)

	if ascii.ValidString(text) {
		if int(pos.Character) > len(text) {
			return start + len(text)
		}
		return start + int(pos.Character)
	}

	units := 0
	for i, r := range text {
		if units >= int(pos.Character) {
			return start + i
		}
		units += utf16.RuneLen(r)
	}
	return start + len(text)
}

// Position 把字节偏移转换为 LSP 位置
func (d *Document) Position(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Content) {
		offset = len(d.Content)
	}

	line := len(d.lines) - 1
	for line > 0 && d.lines[line] > offset {
		line--
	}
	prefix := d.Content[d.lines[line]:offset]

	character := len(prefix)
	if !ascii.ValidString(prefix) {
		character = 0
		for len(prefix) > 0 {
			r, size := utf8.DecodeRuneInString(prefix)
			prefix = prefix[size:]
			if n := utf16.RuneLen(r); n > 0 {
				character += n
			} else {
				character++
			}
		}
	}
	return protocol.Position{Line: uint32(line), Character: uint32(character)}
}

// End 返回文档末尾的位置
func (d *Document) End() protocol.Position {
	return d.Position(len(d.Content))
}

// lineText 返回第 line 行（0-based）的内容，不含换行符
func (d *Document) lineText(line int) string {
	end := len(d.Content)
	if line+1 < len(d.lines) {
		end = d.lines[line+1] - 1
	}
	return strings.TrimSuffix(d.Content[d.lines[line]:end], "\r")
}

func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// ============================================================================
// 文档管理器
// ============================================================================

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[protocol.DocumentURI]*Document
	mu        sync.RWMutex
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[protocol.DocumentURI]*Document),
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(uri protocol.DocumentURI, content string, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := newDocument(uri, content, version)
	dm.documents[uri] = doc
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri protocol.DocumentURI) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, uri)
}

// Get 获取文档
func (dm *DocumentManager) Get(uri protocol.DocumentURI) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[uri]
}

// ApplyChanges 依次应用变更，返回更新后的文档；文档未打开时返回 nil
func (dm *DocumentManager) ApplyChanges(uri protocol.DocumentURI, changes []protocol.TextDocumentContentChangeEvent, version int32) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.documents[uri]
	if !ok {
		return nil
	}

	for _, change := range changes {
		// range 被省略时，新文本是文档的完整内容
		if isFullReplace(change) {
			doc.setContent(change.Text)
			continue
		}
		start := doc.Offset(change.Range.Start)
		end := doc.Offset(change.Range.End)
		if end < start {
			start, end = end, start
		}
		doc.setContent(doc.Content[:start] + change.Text + doc.Content[end:])
	}
	doc.Version = version
	return doc
}

func isFullReplace(change protocol.TextDocumentContentChangeEvent) bool {
	return change.Range.Start.Line == 0 &&
		change.Range.Start.Character == 0 &&
		change.Range.End.Line == 0 &&
		change.Range.End.Character == 0 &&
		change.RangeLength == 0
}
