package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/useverto/uwu"
	"github.com/useverto/uwu/internal/logger"
	"github.com/useverto/uwu/internal/lsp"
)

func main() {
	// 解析命令行参数
	showVersion := flag.Bool("version", false, "显示版本信息")
	logFile := flag.String("log", "", "调试日志文件路径（需要 UWU_LSP_DEBUG=1）")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("uwu language server v%s\n", uwu.Version)
		os.Exit(0)
	}

	log, closeLog, err := logger.New(logger.FromEnv("UWU_LSP_DEBUG", *logFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "uwuls: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 创建并启动 LSP 服务器
	server := lsp.NewServer(log)
	if err := server.Serve(ctx, stdio{}); err != nil && ctx.Err() == nil {
		log.Error("server stopped", zap.Error(err))
		closeLog()
		os.Exit(1)
	}
}

// stdio 把标准输入输出组合为一个连接
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdio) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

func printUsage() {
	fmt.Println("uwuls - uwu 语言服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  uwuls [options]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("服务器通过标准输入输出 (stdio) 与编辑器通信。")
}
