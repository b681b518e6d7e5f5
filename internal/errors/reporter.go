package errors

import (
	"fmt"
	"io"
	"os"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 把诊断写到输出流，并统计错误与警告数量
type Reporter struct {
	out      io.Writer
	sources  map[string]string // 文件名 -> 源代码
	errors   []Diagnostic
	warnings []Diagnostic
}

// NewReporter 创建错误报告器，out 为 nil 时写到 stderr
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{
		out:     out,
		sources: make(map[string]string),
	}
}

// SetSource 登记源代码，用于行列号计算
func (r *Reporter) SetSource(filename, content string) {
	r.sources[filename] = content
}

// Report 报告一条诊断
func (r *Reporter) Report(filename string, d Diagnostic) {
	if d.Level == LevelWarning {
		r.warnings = append(r.warnings, d)
	} else {
		r.errors = append(r.errors, d)
	}
	fmt.Fprintln(r.out, d.Format(filename, r.sources[filename]))
}

// ReportAll 依次报告多条诊断
func (r *Reporter) ReportAll(filename string, ds []Diagnostic) {
	for _, d := range ds {
		r.Report(filename, d)
	}
}

// HasErrors 是否报告过错误
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// ErrorCount 错误数量
func (r *Reporter) ErrorCount() int {
	return len(r.errors)
}

// WarningCount 警告数量
func (r *Reporter) WarningCount() int {
	return len(r.warnings)
}

// Errors 返回已报告的错误
func (r *Reporter) Errors() []Diagnostic {
	return r.errors
}

// Clear 清空统计
func (r *Reporter) Clear() {
	r.errors = nil
	r.warnings = nil
}
