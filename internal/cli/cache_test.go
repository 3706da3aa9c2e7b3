package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(env.dir, "cache")
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.run(t, "render", env.doc, "-f", "json", "-o", filepath.Join(env.dir, "demo.json")); err != nil {
		t.Fatalf("render error: %v", err)
	}
	dir := filepath.Join(env.dir, "cache")
	n, err := countFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("render should populate the cache")
	}

	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if n, _ := countFiles(dir); n != 0 {
		t.Errorf("%d files left after clear", n)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir should survive clear: %v", err)
	}
}

func TestCacheClearEmpty(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Errorf("clearing a missing cache should succeed: %v", err)
	}
}
