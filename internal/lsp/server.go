// Package lsp 实现 uwu 的语言服务器
//
// 服务器通过 JSON-RPC 2.0 与编辑器通信，支持文档同步、诊断推送和整篇格式化。
package lsp

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/useverto/uwu"
	"github.com/useverto/uwu/internal/config"
	"github.com/useverto/uwu/internal/formatter"
)

// Server LSP 服务器
type Server struct {
	// 文档管理
	documents *DocumentManager

	// 工作区配置
	format *formatter.Options
	cfgMu  sync.RWMutex

	// 每个文档最近一次推送诊断时的内容指纹
	published   map[protocol.DocumentURI]string
	publishedMu sync.Mutex

	conn jsonrpc2.Conn
	log  *zap.Logger

	// 服务器状态
	initialized *atomic.Bool
	shutdown    *atomic.Bool
	exit        chan struct{}
	exitOnce    sync.Once
}

// NewServer 创建 LSP 服务器
func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		documents:   NewDocumentManager(),
		format:      formatter.DefaultOptions(),
		published:   make(map[protocol.DocumentURI]string),
		log:         log,
		initialized: atomic.NewBool(false),
		shutdown:    atomic.NewBool(false),
		exit:        make(chan struct{}),
	}
}

// Serve 在 rwc 上运行服务器，直到收到 exit、连接断开或 ctx 取消
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.log.Info("uwu language server started", zap.String("version", uwu.Version))

	s.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn.Go(ctx, s.handle)

	select {
	case <-ctx.Done():
		_ = s.conn.Close()
		return ctx.Err()
	case <-s.exit:
		s.log.Info("server exit")
		return s.conn.Close()
	case <-s.conn.Done():
		s.log.Info("client disconnected")
		return nil
	}
}

// handle 根据方法分发请求
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.log.Debug("received", zap.String("method", req.Method()))

	if s.shutdown.Load() && req.Method() != "exit" {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server is shutting down"))
	}

	switch req.Method() {
	case "initialize":
		return s.handleInitialize(ctx, reply, req)
	case "initialized":
		s.initialized.Store(true)
		return reply(ctx, nil, nil)
	case "shutdown":
		s.shutdown.Store(true)
		return reply(ctx, nil, nil)
	case "exit":
		s.exitOnce.Do(func() { close(s.exit) })
		return reply(ctx, nil, nil)
	case "textDocument/didOpen":
		return s.handleDidOpen(ctx, reply, req)
	case "textDocument/didChange":
		return s.handleDidChange(ctx, reply, req)
	case "textDocument/didClose":
		return s.handleDidClose(ctx, reply, req)
	case "textDocument/didSave", "$/cancelRequest":
		return reply(ctx, nil, nil)
	case "textDocument/formatting":
		return s.handleFormatting(ctx, reply, req)
	default:
		s.log.Debug("unknown method", zap.String("method", req.Method()))
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
	}

	// 按工作区根目录加载 uwu.toml
	if root := workspacePath(params.RootURI); root != "" {
		if cfg, err := config.Resolve(root); err == nil {
			s.cfgMu.Lock()
			s.format = cfg.FormatterOptions()
			s.cfgMu.Unlock()
			s.log.Info("workspace", zap.String("root", root), zap.String("config", cfg.Path))
		} else {
			s.log.Warn("cannot load config", zap.String("root", root), zap.Error(err))
		}
	}

	// 返回服务器能力
	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			// 文档同步：全量同步
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // TextDocumentSyncKindFull
			},
			// 代码格式化
			"documentFormattingProvider": true,
		},
		"serverInfo": map[string]interface{}{
			"name":    "uwuls",
			"version": uwu.Version,
		},
	}
	return reply(ctx, result, nil)
}

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.log.Warn("bad didOpen params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	doc := s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, int32(params.TextDocument.Version))
	s.log.Debug("document opened", zap.String("uri", string(doc.URI)))
	if err := s.publishDiagnostics(ctx, doc); err != nil {
		s.log.Warn("publish diagnostics", zap.Error(err))
	}
	return reply(ctx, nil, nil)
}

// handleDidChange 处理文档变更
func (s *Server) handleDidChange(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.log.Warn("bad didChange params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	doc := s.documents.ApplyChanges(params.TextDocument.URI, params.ContentChanges, int32(params.TextDocument.Version))
	if doc == nil {
		return reply(ctx, nil, nil)
	}
	if err := s.publishDiagnostics(ctx, doc); err != nil {
		s.log.Warn("publish diagnostics", zap.Error(err))
	}
	return reply(ctx, nil, nil)
}

// handleDidClose 处理文档关闭，并清除已推送的诊断
func (s *Server) handleDidClose(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		s.log.Warn("bad didClose params", zap.Error(err))
		return reply(ctx, nil, nil)
	}

	docURI := params.TextDocument.URI
	s.documents.Close(docURI)
	s.publishedMu.Lock()
	delete(s.published, docURI)
	s.publishedMu.Unlock()

	err := s.conn.Notify(ctx, "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.log.Warn("clear diagnostics", zap.Error(err))
	}
	return reply(ctx, nil, nil)
}

// handleFormatting 处理文档格式化请求
func (s *Server) handleFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ParseError, err.Error()))
	}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return reply(ctx, []protocol.TextEdit{}, nil)
	}

	s.cfgMu.RLock()
	base := s.format
	s.cfgMu.RUnlock()

	edits, err := formattingEdits(doc, base, params.Options)
	if err != nil {
		// 格式化失败时返回空编辑
		s.log.Debug("format error", zap.Error(err))
	}
	return reply(ctx, edits, nil)
}

// publishDiagnostics 推送文档诊断；内容与上次推送时相同则跳过
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) error {
	s.publishedMu.Lock()
	if s.published[doc.URI] == doc.Hash() {
		s.publishedMu.Unlock()
		return nil
	}
	s.published[doc.URI] = doc.Hash()
	s.publishedMu.Unlock()

	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: getDiagnostics(doc),
	})
}

// workspacePath 把 file:// URI 转换为本地路径，其他 scheme 返回空串
func workspacePath(root protocol.DocumentURI) string {
	u := uri.URI(root)
	if !strings.HasPrefix(string(u), "file://") {
		return ""
	}
	return u.Filename()
}
