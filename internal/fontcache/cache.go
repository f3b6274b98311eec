// Package fontcache keeps a local copy of the OpenDyslexic font used by
// exported reading pages.
package fontcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/csheth/readease/internal/retry"
)

const (
	// DefaultURL serves the regular OpenDyslexic face.
	DefaultURL = "https://github.com/antijingoist/opendyslexic/raw/master/OPEN%20DYSLEXIC/OpenDyslexic-Regular.otf"
	// DefaultFileName is the cached file name.
	DefaultFileName = "OpenDyslexic-Regular.otf"

	cacheEnvVar        = "READEASE_CACHE_DIR"
	cacheSubdir        = "readease/fonts"
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 60 * time.Second
)

// DefaultPolicy retries flaky downloads twice more with a short pause.
var DefaultPolicy = retry.Policy{Attempts: 3, Backoff: time.Second}

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	Dir      string
	URL      string
	FileName string
	Client   *http.Client
	Policy   retry.Policy
}

// Cache downloads the font at most once and reuses the file afterwards.
type Cache struct {
	dir      string
	url      string
	fileName string
	client   *http.Client
	policy   retry.Policy

	group singleflight.Group
	mu    sync.Mutex
	path  string
}

// Meta describes the cached download.
type Meta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

type statusError struct {
	status string
	code   int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("font download failed: %s", e.status)
}

// New prepares the cache directory.
func New(opts Options) (*Cache, error) {
	dir := opts.Dir
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "readease-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c := &Cache{
		dir:      dir,
		url:      opts.URL,
		fileName: opts.FileName,
		client:   opts.Client,
		policy:   opts.Policy,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.fileName == "" {
		c.fileName = DefaultFileName
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if c.policy.Attempts == 0 {
		c.policy = DefaultPolicy
	}
	return c, nil
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
	defaultErr   error
)

// Default returns the process-wide cache rooted at the user cache dir.
func Default() (*Cache, error) {
	defaultOnce.Do(func() {
		defaultCache, defaultErr = New(Options{})
	})
	return defaultCache, defaultErr
}

// Path is where the font lives once Ensure succeeds.
func (c *Cache) Path() string {
	return filepath.Join(c.dir, c.fileName)
}

// Ensure returns the local font path, downloading it if it is not present.
// Concurrent callers share one download.
func (c *Cache) Ensure(ctx context.Context) (string, error) {
	c.mu.Lock()
	known := c.path
	c.mu.Unlock()
	if known != "" {
		return known, nil
	}

	value, err, _ := c.group.Do(c.fileName, func() (interface{}, error) {
		fontPath := c.Path()
		if info, err := os.Stat(fontPath); err == nil && info.Size() > 0 {
			return fontPath, nil
		}
		started := time.Now()
		err := retry.Do(ctx, c.policy, isTransient, func(ctx context.Context) error {
			return c.download(ctx, fontPath)
		})
		log.Printf("[fontcache] download %s (duration=%s, err=%v)", c.url, time.Since(started), err)
		if err != nil {
			return "", err
		}
		return fontPath, nil
	})
	if err != nil {
		return "", err
	}
	path := value.(string)
	c.mu.Lock()
	c.path = path
	c.mu.Unlock()
	return path, nil
}

func (c *Cache) download(ctx context.Context, fontPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		return &statusError{status: resp.Status, code: resp.StatusCode}
	}

	partialPath := fontPath + partialSuffix
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	size, err := io.Copy(file, resp.Body)
	if err != nil {
		file.Close()
		os.Remove(partialPath)
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if size == 0 {
		os.Remove(partialPath)
		return errors.New("font download returned an empty body")
	}
	if err := os.Rename(partialPath, fontPath); err != nil {
		return err
	}

	return writeMeta(fontPath+metaSuffix, Meta{
		URL:          c.url,
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         size,
	})
}

func isTransient(err error) bool {
	var status *statusError
	if errors.As(err, &status) {
		return status.code == http.StatusTooManyRequests || status.code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

func writeMeta(path string, meta Meta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Meta returns the sidecar written by the last successful download.
func (c *Cache) Meta() (Meta, error) {
	return readMeta(c.Path() + metaSuffix)
}

func readMeta(path string) (Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, err
	}
	return meta, nil
}
