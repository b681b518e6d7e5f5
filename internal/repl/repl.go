// repl.go - uwu REPL (Read-Compile-Print Loop)
//
// 提供交互式命令行界面，支持：
// - 多行输入（括号或 if/while 未闭合时继续读取）
// - 历史记录
// - 特殊命令（:help, :quit, :reset）
// - 打印生成的 JavaScript 或诊断信息

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/useverto/uwu"
	"github.com/useverto/uwu/internal/i18n"
	"github.com/useverto/uwu/internal/lexer"
	"github.com/useverto/uwu/internal/token"
)

// historyFile 历史记录文件（位于用户主目录）
const historyFile = ".uwu_history"

// REPL 交互式编译器
type REPL struct {
	session        *uwu.Session
	writer         io.Writer
	log            *zap.Logger
	history        []string
	promptPrimary  string
	promptContinue string
}

// Config REPL 配置
type Config struct {
	PromptPrimary  string
	PromptContinue string
	Log            *zap.Logger
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		PromptPrimary:  ">>> ",
		PromptContinue: "... ",
	}
}

// New 创建 REPL，输出写到 w
func New(config Config, w io.Writer) *REPL {
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &REPL{
		session:        uwu.NewSession(),
		writer:         w,
		log:            log,
		promptPrimary:  config.PromptPrimary,
		promptContinue: config.PromptContinue,
	}
}

// Run 运行 REPL，直到 :quit 或 ctrl-d
func (r *REPL) Run() {
	fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplWelcome))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		input, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.writer)
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		if quit := r.Eval(input); quit {
			break
		}
	}
	fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplGoodbye))

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			r.log.Debug("cannot save history", zap.Error(err))
		}
	}
}

// read 读取一段完整的输入，未闭合时以续行提示符继续读取
func (r *REPL) read(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := r.promptPrimary
		if b.Len() > 0 {
			prompt = r.promptContinue
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// ctrl-c 放弃当前输入
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !strings.HasPrefix(strings.TrimSpace(b.String()), ":") && needsMoreInput(b.String()) {
			continue
		}
		return b.String(), true
	}
}

// Eval 处理一段输入：特殊命令或 uwu 源码
//
// 返回:
//   - bool: 输入为 :quit 时为 true
func (r *REPL) Eval(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, ":") {
		return r.handleCommand(trimmed)
	}

	r.addHistory(input)
	out, diags := r.session.Compile(input)
	for _, d := range diags {
		fmt.Fprintln(r.writer, d.Format("<repl>", input))
	}
	if len(diags) == 0 {
		fmt.Fprint(r.writer, out)
	}
	return false
}

// handleCommand 处理特殊命令
func (r *REPL) handleCommand(line string) bool {
	cmd := strings.ToLower(strings.Fields(line)[0])

	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplHelp))
	case ":quit", ":q", ":exit":
		return true
	case ":reset", ":clear":
		r.session.Reset()
		fmt.Fprintln(r.writer, i18n.T(i18n.MsgReplReset))
	default:
		fmt.Fprintln(r.writer, i18n.T(i18n.ErrUnknownCommand, cmd))
	}
	return false
}

// History 返回已编译的输入
func (r *REPL) History() []string {
	return r.history
}

// addHistory 添加到历史记录
func (r *REPL) addHistory(input string) {
	// 不添加重复的历史记录
	if len(r.history) > 0 && r.history[len(r.history)-1] == input {
		return
	}
	r.history = append(r.history, input)
	// 限制历史记录大小
	if len(r.history) > 1000 {
		r.history = r.history[len(r.history)-1000:]
	}
}

// needsMoreInput 检查是否需要更多输入
//
// 按 token 统计括号以及 if/while 与 end 的配对；字符串未闭合时同样继续读取。
func needsMoreInput(input string) bool {
	depth := 0
	l := lexer.New(input)
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.EOF:
			return depth > 0
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.IF, token.WHILE:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE, token.END:
			depth--
		case token.STRING:
			if len(tok.Literal) < 2 || !strings.HasSuffix(tok.Literal, `"`) {
				return true
			}
		}
	}
}
