package fontcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/csheth/readease/internal/retry"
)

var testPolicy = retry.Policy{Attempts: 3, Backoff: time.Millisecond}

func TestEnsureDownloadsOnceAcrossCallers(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(20 * time.Millisecond)
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("OTTO-font-bytes"))
	}))
	t.Cleanup(server.Close)

	cache, err := New(Options{Dir: t.TempDir(), URL: server.URL + "/font.otf", Client: server.Client(), Policy: testPolicy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	paths := make([]string, 8)
	errs := make([]error, 8)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = cache.Ensure(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range paths {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if paths[i] != cache.Path() {
			t.Fatalf("caller %d got path %q, want %q", i, paths[i], cache.Path())
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single download, got %d", got)
	}
	data, err := os.ReadFile(cache.Path())
	if err != nil || string(data) != "OTTO-font-bytes" {
		t.Fatalf("unexpected cached font %q (err=%v)", data, err)
	}
	meta, err := cache.Meta()
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.Size != int64(len("OTTO-font-bytes")) {
		t.Fatalf("unexpected meta: %#v", meta)
	}
}

func TestEnsureReusesExistingFile(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("fresh"))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cache, err := New(Options{Dir: dir, URL: server.URL, Client: server.Client(), Policy: testPolicy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(cache.Path(), []byte("already here"), 0o644); err != nil {
		t.Fatalf("seed font: %v", err)
	}
	if _, err := cache.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("existing font re-downloaded %d time(s)", hits)
	}
}

func TestEnsureRetriesServerErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("font"))
	}))
	t.Cleanup(server.Close)

	cache, err := New(Options{Dir: t.TempDir(), URL: server.URL, Client: server.Client(), Policy: testPolicy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cache.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected one retry, got %d hits", hits)
	}
	if _, err := os.Stat(cache.Path() + partialSuffix); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind: %v", err)
	}
}

func TestEnsureDoesNotRetryNotFound(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	cache, err := New(Options{Dir: t.TempDir(), URL: server.URL, Client: server.Client(), Policy: testPolicy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cache.Ensure(context.Background()); err == nil {
		t.Fatal("expected 404 to fail")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("404 retried: %d hits", hits)
	}
	if _, err := os.Stat(cache.Path()); !os.IsNotExist(err) {
		t.Fatalf("no font should be cached: %v", err)
	}
}

func TestNewHonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(cacheEnvVar, dir)
	cache, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cache.dir != dir {
		t.Fatalf("cache dir = %q, want %q", cache.dir, dir)
	}
	if cache.url != DefaultURL || cache.fileName != DefaultFileName {
		t.Fatalf("unexpected defaults: %#v", cache)
	}
}
