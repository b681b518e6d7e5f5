package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/useverto/uwu"
	"github.com/useverto/uwu/internal/compiler"
	"github.com/useverto/uwu/internal/config"
	"github.com/useverto/uwu/internal/errors"
	"github.com/useverto/uwu/internal/formatter"
	"github.com/useverto/uwu/internal/i18n"
	"github.com/useverto/uwu/internal/logger"
	"github.com/useverto/uwu/internal/repl"
)

// SourceFileExtension 源文件扩展名
const SourceFileExtension = ".uwu"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli 一次命令行调用的上下文
type cli struct {
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	log    *zap.Logger
}

// run 执行命令并返回退出码
func run(args []string, stdout, stderr io.Writer) int {
	// 预扫描全局参数 --lang
	args, lang := preprocessArgs(args)

	if len(args) < 1 {
		fmt.Fprintln(stdout, i18n.T(i18n.MsgUsage))
		return 0
	}
	command, rest := args[0], args[1:]

	cfg, err := config.Resolve(configStart(rest))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if lang != "" {
		cfg.Diagnostics.Lang = lang
	}
	i18n.SetLanguage(cfg.Language())

	log, closeLog, err := logger.New(logger.Options{Debug: cfg.Debug})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closeLog()

	c := &cli{stdout: stdout, stderr: stderr, cfg: cfg, log: log}
	log.Debug("command", zap.String("name", command), zap.String("config", cfg.Path))

	switch command {
	case "build":
		return c.cmdBuild(rest)
	case "check":
		return c.cmdCheck(rest)
	case "fmt":
		return c.cmdFormat(rest)
	case "repl":
		repl.New(repl.Config{
			PromptPrimary:  ">>> ",
			PromptContinue: "... ",
			Log:            log,
		}, stdout).Run()
		return 0
	case "version", "-v", "--version":
		fmt.Fprintf(stdout, "uwu %s\n", uwu.Version)
		return 0
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, i18n.T(i18n.MsgUsage))
		return 0
	default:
		fmt.Fprintln(stderr, i18n.T(i18n.ErrUnknownCommand, command))
		fmt.Fprintln(stderr, i18n.T(i18n.MsgUsage))
		return 1
	}
}

// preprocessArgs 提取全局 --lang 参数
func preprocessArgs(args []string) ([]string, string) {
	var result []string
	lang := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case (arg == "--lang" || arg == "-lang") && i+1 < len(args):
			lang = args[i+1]
			i++ // 跳过下一个参数
		case strings.HasPrefix(arg, "--lang="):
			lang = strings.TrimPrefix(arg, "--lang=")
		case strings.HasPrefix(arg, "-lang="):
			lang = strings.TrimPrefix(arg, "-lang=")
		default:
			result = append(result, arg)
		}
	}
	return result, lang
}

// configStart 配置文件的查找起点：第一个源文件的目录，否则为工作目录
func configStart(args []string) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") && strings.HasSuffix(arg, SourceFileExtension) {
			return filepath.Dir(arg)
		}
	}
	return "."
}

// ============================================================================
// build
// ============================================================================

// cmdBuild 编译源文件为 JavaScript
func (c *cli) cmdBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	outDir := fs.String("o", c.cfg.OutDir(), "output directory")
	noCache := fs.Bool("no-cache", !c.cfg.Build.Cache, "do not use the compile cache")
	showTokens := fs.Bool("tokens", false, "print tokens")
	showAST := fs.Bool("ast", false, "print the syntax tree")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(c.stderr, i18n.T(i18n.ErrNoInput))
		return 1
	}

	cache, err := compiler.NewCacheManager(c.cfg.CacheDir(), c.log)
	if err != nil {
		c.log.Warn("compile cache disabled", zap.Error(err))
	} else {
		cache.SetEnabled(!*noCache)
	}

	reporter := errors.NewReporter(c.stderr)
	for _, filename := range fs.Args() {
		source, ok := c.readSource(filename)
		if !ok {
			return 1
		}
		c.dump(source, *showTokens, *showAST)

		target := filepath.Join(*outDir, strings.TrimSuffix(filepath.Base(filename), SourceFileExtension)+".js")
		if cache != nil {
			if out, hit := cache.Get(filename, source); hit {
				if err := writeOutput(target, out); err != nil {
					fmt.Fprintln(c.stderr, i18n.T(i18n.ErrWriteFile, target, err))
					return 1
				}
				fmt.Fprintln(c.stdout, i18n.T(i18n.MsgCacheHit, filename))
				continue
			}
		}

		out, diags := uwu.NewSession().Compile(source)
		if len(diags) > 0 {
			reporter.SetSource(filename, source)
			reporter.ReportAll(filename, diags)
			continue
		}
		if err := writeOutput(target, out); err != nil {
			fmt.Fprintln(c.stderr, i18n.T(i18n.ErrWriteFile, target, err))
			return 1
		}
		if cache != nil {
			if err := cache.Put(filename, source, out); err != nil {
				c.log.Warn("cache write failed", zap.String("file", filename), zap.Error(err))
			}
		}
		fmt.Fprintln(c.stdout, i18n.T(i18n.MsgCompiled, filename, target))
	}

	if reporter.HasErrors() {
		return 1
	}
	return 0
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// ============================================================================
// check
// ============================================================================

// cmdCheck 只做语法和类型检查，不写入文件
func (c *cli) cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	showTokens := fs.Bool("tokens", false, "print tokens")
	showAST := fs.Bool("ast", false, "print the syntax tree")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(c.stderr, i18n.T(i18n.ErrNoInput))
		return 1
	}

	reporter := errors.NewReporter(c.stderr)
	for _, filename := range fs.Args() {
		source, ok := c.readSource(filename)
		if !ok {
			return 1
		}
		c.dump(source, *showTokens, *showAST)

		diags := uwu.Check(source)
		if len(diags) == 0 {
			fmt.Fprintln(c.stdout, i18n.T(i18n.MsgNoErrors, filename))
			continue
		}
		reporter.SetSource(filename, source)
		reporter.ReportAll(filename, diags)
	}

	if reporter.HasErrors() {
		return 1
	}
	return 0
}

// ============================================================================
// fmt
// ============================================================================

// cmdFormat 格式化源文件
func (c *cli) cmdFormat(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	write := fs.Bool("w", false, "write the result back to the file")
	check := fs.Bool("check", false, "report files that are not formatted")
	useTabs := fs.Bool("tabs", c.cfg.Format.UseTabs, "indent with tabs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(c.stderr, i18n.T(i18n.ErrNoInput))
		return 1
	}

	options := c.cfg.FormatterOptions()
	if *useTabs {
		options.IndentStyle = "tabs"
	}

	status := 0
	for _, filename := range fs.Args() {
		source, ok := c.readSource(filename)
		if !ok {
			return 1
		}

		formatted, err := formatter.Format(source, options)
		if err != nil {
			reporter := errors.NewReporter(c.stderr)
			reporter.SetSource(filename, source)
			_, errs := uwu.Parse(source)
			reporter.ReportAll(filename, uwu.ParseDiagnostics(errs))
			status = 1
			continue
		}

		switch {
		case *check:
			if formatted != source {
				fmt.Fprintln(c.stdout, i18n.T(i18n.MsgNotFormatted, filename))
				status = 1
			}
		case *write:
			if formatted != source {
				if err := os.WriteFile(filename, []byte(formatted), 0o644); err != nil {
					fmt.Fprintln(c.stderr, i18n.T(i18n.ErrWriteFile, filename, err))
					return 1
				}
			}
		default:
			fmt.Fprint(c.stdout, formatted)
		}
	}
	return status
}

// ============================================================================
// 辅助函数
// ============================================================================

func (c *cli) readSource(filename string) (string, bool) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(c.stderr, i18n.T(i18n.ErrReadFile, filename, err))
		return "", false
	}
	return string(data), true
}

// dump 按需打印 token 序列和语法树
func (c *cli) dump(source string, showTokens, showAST bool) {
	if showTokens {
		fmt.Fprintln(c.stdout, "=== Tokens ===")
		for _, tok := range uwu.Tokens(source) {
			fmt.Fprintf(c.stdout, "  %s\n", tok)
		}
	}
	if showAST {
		fmt.Fprintln(c.stdout, "=== AST ===")
		program, _ := uwu.Parse(source)
		for i, item := range program.Items {
			fmt.Fprintf(c.stdout, "  Statement[%d]: %s\n", i, item.Stmt)
		}
	}
}
