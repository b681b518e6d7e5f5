// Package config 加载 uwu 项目配置
//
// 配置来源按优先级从低到高：内置默认值、uwu.toml、环境变量。
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/xyproto/env/v2"

	"github.com/useverto/uwu/internal/formatter"
	"github.com/useverto/uwu/internal/i18n"
)

// 常量定义
const (
	ConfigFileName = "uwu.toml" // 配置文件名
)

// 环境变量
const (
	EnvOutDir = "UWU_OUT_DIR"
	EnvCache  = "UWU_CACHE"
	EnvLang   = "UWU_LANG"
	EnvDebug  = "UWU_DEBUG"
)

// Config 项目配置
type Config struct {
	Build       BuildConfig       `toml:"build"`
	Format      FormatConfig      `toml:"format"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`

	// Debug 只来自环境变量
	Debug bool `toml:"-"`
	// Path 加载的配置文件，使用默认值时为空
	Path string `toml:"-"`
}

// BuildConfig 编译输出
type BuildConfig struct {
	OutDir   string `toml:"out_dir"`
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

// FormatConfig 格式化
type FormatConfig struct {
	IndentSize int  `toml:"indent_size"`
	UseTabs    bool `toml:"use_tabs"`
}

// DiagnosticsConfig 诊断信息
type DiagnosticsConfig struct {
	Lang string `toml:"lang"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			OutDir:   "dist",
			Cache:    true,
			CacheDir: ".uwu-cache",
		},
		Format: FormatConfig{
			IndentSize: 4,
		},
		Diagnostics: DiagnosticsConfig{
			Lang: "en",
		},
	}
}

// Load 从文件加载配置，文件中未出现的字段保留默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Resolve 查找并加载 startPath 所属项目的配置，再应用环境变量
//
// 找不到配置文件时使用默认值。
func Resolve(startPath string) (*Config, error) {
	cfg := Default()
	if path := FindConfigFile(startPath); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置
func (c *Config) ApplyEnv() {
	c.Build.OutDir = env.Str(EnvOutDir, c.Build.OutDir)
	if env.Has(EnvCache) {
		c.Build.Cache = env.Bool(EnvCache)
	}
	c.Diagnostics.Lang = env.Str(EnvLang, c.Diagnostics.Lang)
	c.Debug = env.Bool(EnvDebug)
}

// Root 返回项目根目录（配置文件所在目录），使用默认配置时为空
func (c *Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// CacheDir 返回缓存目录；相对路径相对项目根目录
func (c *Config) CacheDir() string {
	return c.fromRoot(c.Build.CacheDir)
}

// OutDir 返回输出目录；相对路径相对项目根目录
func (c *Config) OutDir() string {
	return c.fromRoot(c.Build.OutDir)
}

func (c *Config) fromRoot(path string) string {
	if filepath.IsAbs(path) || c.Root() == "" {
		return path
	}
	return filepath.Join(c.Root(), path)
}

// Language 返回诊断信息语言
func (c *Config) Language() i18n.Language {
	return i18n.ParseLanguage(c.Diagnostics.Lang)
}

// FormatterOptions 转换为格式化选项
func (c *Config) FormatterOptions() *formatter.Options {
	opts := formatter.DefaultOptions()
	if c.Format.IndentSize > 0 {
		opts.IndentSize = c.Format.IndentSize
	}
	if c.Format.UseTabs {
		opts.IndentStyle = "tabs"
	}
	return opts
}

// FindConfigFile 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func FindConfigFile(startPath string) string {
	// 如果是文件，从其所在目录开始
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到达根目录
			return ""
		}
		dir = parent
	}
}
