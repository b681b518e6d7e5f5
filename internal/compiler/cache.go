// cache.go - 编译结果缓存
//
// 以源码内容哈希为键缓存生成的 JavaScript，源码未变化时跳过编译。
//
// 功能：
// 1. 源码哈希计算和变化检测
// 2. 缓存文件读写与 JSON 索引
// 3. 条目数超限时按最久未访问淘汰

package compiler

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

const (
	// CacheVersion 缓存版本：索引格式加编译器版本，升级编译器后旧缓存失效
	CacheVersion = "2-" + Version

	// DefaultCacheDir 默认缓存目录
	DefaultCacheDir = ".uwu-cache"

	// MaxCacheEntries 最大缓存条目数
	MaxCacheEntries = 500

	indexFile = "index.json"
	cacheExt  = ".js"
)

// CacheManager 缓存管理器
type CacheManager struct {
	mu       sync.RWMutex
	cacheDir string
	index    *CacheIndex
	enabled  bool
	log      *zap.Logger
}

// CacheIndex 缓存索引
type CacheIndex struct {
	Version   string                 `json:"version"`
	Entries   map[string]*CacheEntry `json:"entries"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// CacheEntry 缓存条目
type CacheEntry struct {
	SourcePath  string    `json:"source_path"`
	SourceHash  string    `json:"source_hash"`
	CacheFile   string    `json:"cache_file"`
	Size        int64     `json:"size"`
	CompiledAt  time.Time `json:"compiled_at"`
	AccessedAt  time.Time `json:"accessed_at"`
	AccessCount int       `json:"access_count"`
}

// CacheStats 缓存统计信息
type CacheStats struct {
	TotalEntries int
	TotalSize    int64
	CacheDir     string
}

// NewCacheManager 创建缓存管理器
//
// 参数:
//   - cacheDir: 缓存目录，不存在时创建
//   - log: 日志，可以为 nil
func NewCacheManager(cacheDir string, log *zap.Logger) (*CacheManager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cm := &CacheManager{
		cacheDir: cacheDir,
		enabled:  true,
		log:      log,
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	if err := cm.loadIndex(); err != nil || cm.index.Version != CacheVersion {
		if err != nil && !os.IsNotExist(err) {
			log.Warn("cache index unreadable, starting fresh", zap.Error(err))
		}
		if err := cm.Clear(); err != nil {
			return nil, err
		}
	}
	return cm, nil
}

// SetEnabled 启用或禁用缓存
func (cm *CacheManager) SetEnabled(enabled bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.enabled = enabled
}

// IsEnabled 检查是否启用
func (cm *CacheManager) IsEnabled() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.enabled
}

// Get 查找 source 的编译结果
//
// 源码哈希与记录不一致时删除旧条目并返回未命中。
func (cm *CacheManager) Get(sourcePath, source string) (string, bool) {
	if !cm.IsEnabled() {
		return "", false
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	entry, ok := cm.index.Entries[sourcePath]
	if !ok {
		return "", false
	}
	if entry.SourceHash != ContentHash(source) {
		cm.log.Debug("cache stale", zap.String("path", sourcePath))
		cm.removeEntryUnsafe(sourcePath)
		return "", false
	}

	data, err := os.ReadFile(entry.CacheFile)
	if err != nil {
		cm.log.Debug("cache file missing", zap.String("path", sourcePath), zap.Error(err))
		cm.removeEntryUnsafe(sourcePath)
		return "", false
	}

	entry.AccessedAt = time.Now()
	entry.AccessCount++
	return string(data), true
}

// Put 保存编译结果
func (cm *CacheManager) Put(sourcePath, source, output string) error {
	if !cm.IsEnabled() {
		return nil
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	hash := ContentHash(source)
	cacheFile := cm.cacheFileName(sourcePath, hash)
	if old, ok := cm.index.Entries[sourcePath]; ok && old.CacheFile != cacheFile {
		cm.removeEntryUnsafe(sourcePath)
	}
	if err := os.WriteFile(cacheFile, []byte(output), 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	now := time.Now()
	cm.index.Entries[sourcePath] = &CacheEntry{
		SourcePath:  sourcePath,
		SourceHash:  hash,
		CacheFile:   cacheFile,
		Size:        int64(len(output)),
		CompiledAt:  now,
		AccessedAt:  now,
		AccessCount: 1,
	}
	cm.index.UpdatedAt = now

	if over := len(cm.index.Entries) - MaxCacheEntries; over > 0 {
		cm.evictLRU(over)
	}
	return cm.saveIndex()
}

// Invalidate 使缓存条目失效
func (cm *CacheManager) Invalidate(sourcePath string) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeEntryUnsafe(sourcePath)
	return cm.saveIndex()
}

// Clear 清空所有缓存
func (cm *CacheManager) Clear() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	entries, err := os.ReadDir(cm.cacheDir)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == cacheExt {
				os.Remove(filepath.Join(cm.cacheDir, entry.Name()))
			}
		}
	}

	cm.index = &CacheIndex{
		Version: CacheVersion,
		Entries: make(map[string]*CacheEntry),
	}
	return cm.saveIndex()
}

// Stats 获取缓存统计
func (cm *CacheManager) Stats() CacheStats {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	stats := CacheStats{
		TotalEntries: len(cm.index.Entries),
		CacheDir:     cm.cacheDir,
	}
	for _, entry := range cm.index.Entries {
		stats.TotalSize += entry.Size
	}
	return stats
}

// ============================================================================
// 内部方法
// ============================================================================

func (cm *CacheManager) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(cm.cacheDir, indexFile))
	if err != nil {
		return err
	}

	index := &CacheIndex{}
	if err := json.Unmarshal(data, index); err != nil {
		return err
	}
	if index.Entries == nil {
		index.Entries = make(map[string]*CacheEntry)
	}
	cm.index = index
	return nil
}

func (cm *CacheManager) saveIndex() error {
	data, err := json.MarshalIndent(cm.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cm.cacheDir, indexFile), data, 0o644)
}

// cacheFileName 由路径哈希和内容哈希组合出缓存文件名
func (cm *CacheManager) cacheFileName(sourcePath, hash string) string {
	pathHash := blake2b.Sum256([]byte(sourcePath))
	name := hex.EncodeToString(pathHash[:8]) + "_" + hash[:16] + cacheExt
	return filepath.Join(cm.cacheDir, name)
}

// removeEntryUnsafe 删除缓存条目（不加锁）
func (cm *CacheManager) removeEntryUnsafe(sourcePath string) {
	entry, ok := cm.index.Entries[sourcePath]
	if !ok {
		return
	}
	os.Remove(entry.CacheFile)
	delete(cm.index.Entries, sourcePath)
}

// evictLRU 删除最久未访问的 count 个条目
func (cm *CacheManager) evictLRU(count int) {
	entries := make([]*CacheEntry, 0, len(cm.index.Entries))
	for _, entry := range cm.index.Entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AccessedAt.Before(entries[j].AccessedAt)
	})

	for i := 0; i < count && i < len(entries); i++ {
		cm.log.Debug("cache evict", zap.String("path", entries[i].SourcePath))
		cm.removeEntryUnsafe(entries[i].SourcePath)
	}
}

// ContentHash 计算源码内容的 blake2b-256 哈希
func ContentHash(content string) string {
	h := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
