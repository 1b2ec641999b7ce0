package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	c := newCache(t)
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}

	c, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error for disabled cache: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}

	var nilCache *Cache
	if nilCache.Enabled() {
		t.Error("nil cache should be disabled")
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	if _, err := New(cacheDir, 24, true); err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestSetAndGet(t *testing.T) {
	c := newCache(t)

	key := Key("metrics", "python", "src/a.py")
	hash := HashBytes([]byte("a = 1\n"))
	data := []byte(`{"name":"src/a.py"}`)

	if err := c.Set(key, hash, data); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := c.Get(key, hash)
	if !ok {
		t.Fatal("Get() returned false for matching hash")
	}
	if string(got) != string(data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}

	if _, ok := c.Get(key, HashBytes([]byte("a = 2\n"))); ok {
		t.Error("Get() should miss when the source changed")
	}
	if _, ok := c.Get(Key("ops", "python", "src/a.py"), hash); ok {
		t.Error("Get() should miss for a different key")
	}
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	c := newCache(t)
	if err := c.Set("k", "h", []byte("not json")); err == nil {
		t.Error("Set() should reject data that is not JSON")
	}
}

func TestGetIgnoresOtherVersions(t *testing.T) {
	c := newCache(t)
	entry := Entry{Version: 0, Hash: "h", Timestamp: time.Now(), Data: json.RawMessage(`{}`)}
	if err := writeEntry(c.dir, c.keyPath("k"), entry); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("Get() should ignore entries of another version")
	}
}

func TestGetIgnoresUncompressedEntries(t *testing.T) {
	c := newCache(t)
	entry := `{"version":` + strconv.Itoa(Version) + `,"hash":"h","timestamp":"` + time.Now().Format(time.RFC3339Nano) + `","data":{}}`
	if err := os.WriteFile(c.keyPath("k"), []byte(entry), 0600); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("Get() should ignore entries that are not LZ4 frames")
	}
}

func TestInvalidate(t *testing.T) {
	c := newCache(t)

	if err := c.Set("k", "h", []byte(`1`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Invalidate("k"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("Key should not exist after invalidation")
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() of a missing key should not error: %v", err)
	}
}

func TestClear(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	c, err := New(cacheDir, 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := c.Set(string(rune('a'+i)), "h", []byte(`"data"`)); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("Clear() should remove cache directory")
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := c.Set("key", "hash", []byte(`1`)); err != nil {
		t.Errorf("Set() on disabled cache should not error: %v", err)
	}
	if _, ok := c.Get("key", "hash"); ok {
		t.Error("Get() on disabled cache should return false")
	}
	if err := c.Invalidate("key"); err != nil {
		t.Errorf("Invalidate() on disabled cache should not error: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear() on disabled cache should not error: %v", err)
	}
}

func TestHashBytes(t *testing.T) {
	hash1 := HashBytes([]byte("hello world"))
	hash2 := HashBytes([]byte("hello world"))
	hash3 := HashBytes([]byte("different"))

	if len(hash1) != 64 {
		t.Errorf("HashBytes() length = %d, want 64 hex digits", len(hash1))
	}
	if hash1 != hash2 {
		t.Error("HashBytes() should return consistent hashes for same content")
	}
	if hash1 == hash3 {
		t.Error("HashBytes() should return different hashes for different content")
	}
}

func TestGetStats(t *testing.T) {
	c := newCache(t)

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("Empty cache should have 0 entries, got %d", stats.Entries)
	}

	for i := 0; i < 3; i++ {
		if err := c.Set(string(rune('a'+i)), "h", []byte(`{}`)); err != nil {
			t.Fatalf("Set() error: %v", err)
		}
	}

	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Cache should have 3 entries, got %d", stats.Entries)
	}
	if stats.TotalSize <= 0 {
		t.Error("TotalSize should be positive")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := &Cache{
		dir:     filepath.Join(t.TempDir(), "cache"),
		ttl:     time.Millisecond,
		enabled: true,
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := c.Set("k", "h", []byte(`1`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get("k", "h"); ok {
		t.Error("Get() should return false after TTL expires")
	}
	if _, err := os.Stat(c.keyPath("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestKeyPath(t *testing.T) {
	c := newCache(t)

	path1 := c.keyPath(Key("metrics", "a.go"))
	path2 := c.keyPath(Key("metrics", "b.go"))
	if path1 == path2 {
		t.Error("Different keys should produce different paths")
	}
	if path1 != c.keyPath(Key("metrics", "a.go")) {
		t.Error("Same keys should produce same paths")
	}
	if !strings.HasSuffix(path1, ".json.lz4") || filepath.Dir(path1) != c.dir {
		t.Errorf("unexpected key path %s", path1)
	}
	if Key("a", "bc") == Key("ab", "c") {
		t.Error("Key parts must not run together")
	}
}
