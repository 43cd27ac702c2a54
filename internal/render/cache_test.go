package render

import (
	"sync"
	"testing"
)

func TestCacheKey(t *testing.T) {
	base := cacheKey(DefaultOptions())

	if base == cacheKey(DefaultOptions().WithWidth(100)) {
		t.Error("different widths should produce different keys")
	}
	if base == cacheKey(DefaultOptions().WithStyle(StyleLight)) {
		t.Error("different styles should produce different keys")
	}
	if base != cacheKey(DefaultOptions()) {
		t.Error("same options should produce same key")
	}
}

func TestPoolReuseAcrossOptions(t *testing.T) {
	ClearCache()
	defer ClearCache()

	narrow := DefaultOptions().WithWidth(40)
	wide := DefaultOptions().WithWidth(120)

	for _, opts := range []Options{narrow, wide, narrow} {
		r, err := globalPool.get(opts)
		if err != nil {
			t.Fatalf("get(%d) error: %v", opts.Width, err)
		}
		globalPool.put(opts, r)
	}

	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}

	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("CacheSize() after clear = %d, want 0", CacheSize())
	}
}

func TestPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("**reply**", opts); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}
}

func TestCreateRenderer(t *testing.T) {
	for _, style := range StyleNames() {
		r, err := createRenderer(DefaultOptions().WithStyle(style))
		if err != nil {
			t.Errorf("createRenderer(%q) error: %v", style, err)
			continue
		}
		if out, err := r.Render("# Test"); err != nil || out == "" {
			t.Errorf("Render with %q = %q, %v", style, out, err)
		}
	}

	if _, err := createRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for invalid style")
	}
}
