package formatter

import "strings"

// Options 格式化选项
type Options struct {
	// 缩进设置
	IndentStyle string // "tabs" 或 "spaces"
	IndentSize  int    // 空格数（当使用 spaces 时）

	// 其他
	RemoveTrailingSpace bool // 移除行尾空格
	EnsureNewlineAtEOF  bool // 确保文件末尾有换行符
}

// DefaultOptions 返回默认格式化选项（4 空格缩进）
func DefaultOptions() *Options {
	return &Options{
		IndentStyle:         "spaces",
		IndentSize:          4,
		RemoveTrailingSpace: true,
		EnsureNewlineAtEOF:  true,
	}
}

// IndentString 返回一级缩进
func (o *Options) IndentString() string {
	if o.IndentStyle == "tabs" {
		return "\t"
	}
	size := o.IndentSize
	if size <= 0 {
		size = 4
	}
	return strings.Repeat(" ", size)
}
