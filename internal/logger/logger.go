// Package logger 构造命令行工具和语言服务共用的 zap 日志
package logger

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志选项
type Options struct {
	Debug bool   // 输出 debug/info；关闭时只输出错误
	File  string // 调试日志文件，仅在 Debug 时使用
}

// FromEnv 根据环境变量（如 UWU_DEBUG）决定是否启用调试日志
func FromEnv(name, file string) Options {
	return Options{Debug: env.Bool(name), File: file}
}

// New 创建日志
//
// 错误始终写到 stderr；启用调试且指定了文件时，所有级别写入文件，
// 没有文件时 stderr 输出所有级别。
//
// 返回:
//   - *zap.Logger: 日志
//   - func(): 关闭日志文件
func New(opts Options) (*zap.Logger, func(), error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoder := zapcore.NewConsoleEncoder(encCfg)

	stderrLevel := zapcore.ErrorLevel
	if opts.Debug && opts.File == "" {
		stderrLevel = zapcore.DebugLevel
	}
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), stderrLevel),
	}

	closeFile := func() {}
	if opts.Debug && opts.File != "" {
		ws, closer, err := zap.Open(opts.File)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		closeFile = closer
		cores = append(cores, zapcore.NewCore(encoder, ws, zapcore.DebugLevel))
	}

	log := zap.New(zapcore.NewTee(cores...))
	return log, func() {
		_ = log.Sync()
		closeFile()
	}, nil
}
