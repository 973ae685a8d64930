package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"wallgrab/internal/domain"
	"wallgrab/internal/log"
)

// pngBytes returns a small well-formed PNG
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

// countingFetcher writes canned data and counts invocations
type countingFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (f *countingFetcher) Fetch(ctx context.Context, url, dest string) error {
	f.calls.Add(1)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, f.data, 0644)
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(t.TempDir(), log.NullLogger())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	return cache
}

func TestCache_PutRoundTrip(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put("a.png", pngBytes(t)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entry := cache.Get("a.png")
	if entry.State != domain.CacheValid {
		t.Fatalf("State = %v, want Valid", entry.State)
	}
	if entry.Path != filepath.Join(cache.Dir(), "a.png") {
		t.Errorf("Path = %q", entry.Path)
	}

	// Second Get must agree without any re-validation surprises
	again := cache.Get("a.png")
	if again.State != domain.CacheValid {
		t.Errorf("second Get State = %v, want Valid", again.State)
	}
}

func TestCache_PutGarbageIsCorrupt(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put("bad.jpg", []byte("not an image at all")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if entry := cache.Get("bad.jpg"); entry.State != domain.CacheCorrupt {
		t.Fatalf("State = %v, want Corrupt", entry.State)
	}
}

func TestCache_LeftoverFileValidatedOnFirstGet(t *testing.T) {
	dir := t.TempDir()
	// A previous session left one good and one truncated file behind
	if err := os.WriteFile(filepath.Join(dir, "good.png"), pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	cache, err := NewCache(dir, log.NullLogger())
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	if entry := cache.Get("good.png"); entry.State != domain.CacheValid {
		t.Errorf("good.png State = %v, want Valid", entry.State)
	}
	if entry := cache.Get("bad.png"); entry.State != domain.CacheCorrupt {
		t.Errorf("bad.png State = %v, want Corrupt", entry.State)
	}
	if entry := cache.Get("absent.png"); entry.State != domain.CacheMissing {
		t.Errorf("absent.png State = %v, want Missing", entry.State)
	}
}

func TestCache_EnsureFetchesOnceUnderConcurrency(t *testing.T) {
	cache := newTestCache(t)
	fetcher := &countingFetcher{data: pngBytes(t)}

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := cache.Ensure(context.Background(), "https://example/shared.png?x=1", fetcher)
			if err != nil {
				t.Errorf("Ensure failed: %v", err)
				return
			}
			if entry.State != domain.CacheValid {
				t.Errorf("State = %v, want Valid", entry.State)
			}
		}()
	}
	wg.Wait()

	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("fetch invoked %d times, want exactly 1", got)
	}

	// A later Ensure hits the cache, still no second fetch
	if _, err := cache.Ensure(context.Background(), "https://example/shared.png?x=1", fetcher); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("fetch invoked %d times after warm hit, want 1", got)
	}
}

func TestCache_FailedFetchLeavesMissing(t *testing.T) {
	cache := newTestCache(t)
	fetcher := &countingFetcher{err: errors.New("boom")}

	_, err := cache.Ensure(context.Background(), "https://example/x.png", fetcher)
	if err == nil {
		t.Fatal("Ensure succeeded, want error")
	}
	if entry := cache.Get("x.png"); entry.State != domain.CacheMissing {
		t.Fatalf("State = %v, want Missing after failed fetch", entry.State)
	}
}

func TestCache_Invalidate(t *testing.T) {
	cache := newTestCache(t)
	if err := cache.Put("a.png", pngBytes(t)); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate("a.png")

	if entry := cache.Get("a.png"); entry.State != domain.CacheMissing {
		t.Fatalf("State = %v, want Missing after Invalidate", entry.State)
	}
	if _, err := os.Stat(filepath.Join(cache.Dir(), "a.png")); !os.IsNotExist(err) {
		t.Error("file still present after Invalidate")
	}
}

func TestCacheFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example/w/full/abc123.jpg", "abc123.jpg"},
		{"https://example/abc.png?auth=tok&x=1", "abc.png"},
		{"plainname.jpg", "plainname.jpg"},
	}
	for _, tt := range tests {
		if got := domain.CacheFilename(tt.url); got != tt.want {
			t.Errorf("CacheFilename(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
