package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cm, err := NewCacheManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := cm.Get("main.uwu", "let x = 1"); ok {
		t.Fatal("empty cache should miss")
	}
	if err := cm.Put("main.uwu", "let x = 1", "let x = 1;\n"); err != nil {
		t.Fatal(err)
	}

	out, ok := cm.Get("main.uwu", "let x = 1")
	if !ok || out != "let x = 1;\n" {
		t.Fatalf("got (%q, %v)", out, ok)
	}

	// 源码变化后未命中，旧条目被删除
	if _, ok := cm.Get("main.uwu", "let x = 2"); ok {
		t.Error("changed source should miss")
	}
	if n := cm.Stats().TotalEntries; n != 0 {
		t.Errorf("stale entry kept: %d entries", n)
	}
}

func TestCacheIndexPersists(t *testing.T) {
	dir := t.TempDir()
	cm, err := NewCacheManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := cm.Put("a.uwu", "1", "1;\n"); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewCacheManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out, ok := reopened.Get("a.uwu", "1"); !ok || out != "1;\n" {
		t.Errorf("got (%q, %v)", out, ok)
	}
	if _, err := os.Stat(filepath.Join(dir, indexFile)); err != nil {
		t.Errorf("index file: %v", err)
	}
}

func TestCacheDisabledAndClear(t *testing.T) {
	cm, err := NewCacheManager(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	cm.SetEnabled(false)
	if err := cm.Put("a.uwu", "1", "1;\n"); err != nil {
		t.Fatal(err)
	}
	cm.SetEnabled(true)
	if _, ok := cm.Get("a.uwu", "1"); ok {
		t.Error("disabled cache should not store")
	}

	if err := cm.Put("a.uwu", "1", "1;\n"); err != nil {
		t.Fatal(err)
	}
	if err := cm.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := cm.Get("a.uwu", "1"); ok {
		t.Error("cleared cache should miss")
	}
}

func TestCacheCorruptIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, indexFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cm, err := NewCacheManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cm.Stats().TotalEntries != 0 {
		t.Error("corrupt index should start empty")
	}
}

func TestCacheVersionChange(t *testing.T) {
	if !strings.HasSuffix(CacheVersion, Version) {
		t.Errorf("cache version %q does not track compiler version %q", CacheVersion, Version)
	}

	dir := t.TempDir()
	cm, err := NewCacheManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := cm.Put("a.uwu", "1", "1;\n"); err != nil {
		t.Fatal(err)
	}

	// 模拟旧版本编译器写下的索引
	cm.index.Version = "1"
	if err := cm.saveIndex(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewCacheManager(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reopened.Get("a.uwu", "1"); ok {
		t.Error("entries from another compiler version should be discarded")
	}
}

func TestContentHash(t *testing.T) {
	a, b := ContentHash("x"), ContentHash("y")
	if len(a) != 64 || a == b {
		t.Errorf("got %q and %q", a, b)
	}
	if ContentHash("x") != a {
		t.Error("hash is not deterministic")
	}
}
