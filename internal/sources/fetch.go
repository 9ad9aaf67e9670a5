package sources

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/function61/gokit/net/http/ezhttp"
	"github.com/function61/gokit/os/osutil"
	"github.com/pkg/errors"

	"github.com/blockgate/blockgate/internal/config"
	"github.com/blockgate/blockgate/internal/logger"
)

// Some hosts mirrors refuse requests without a browser User-Agent.
const userAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:24.0) Gecko/20100101 Firefox/24.0"

const (
	fetchTimeout   = 15 * time.Second
	cacheIndexName = "sha1_index"
)

// Fetcher downloads remote blocklists, keeping unexpired copies in an
// on-disk cache keyed by the SHA-1 of the source URL.
type Fetcher struct {
	cacheDir string
	expire   time.Duration
	noCache  bool
}

func NewFetcher(cfg config.CacheConfig) *Fetcher {
	return &Fetcher{
		cacheDir: cfg.Dir,
		expire:   cfg.Expire,
		noCache:  cfg.Disable,
	}
}

// FetchAll gathers every source concurrently and returns the parsed
// domain collections. A source that fails to fetch or parse is skipped
// with an error log; it never aborts the run.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) [][]string {
	results := make([][]string, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			logger.Errorf("%s must start with http:// or https://, skipping", url)
			continue
		}
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			body, err := f.Fetch(ctx, url)
			if err != nil {
				logger.Errorf("Failed to get %s, skipping: %v", url, err)
				return
			}
			results[i] = ParseHosts(string(body))
			logger.Infof("%d domains from %s", len(results[i]), url)
		}(i, url)
	}
	wg.Wait()

	return results
}

// Fetch returns the content of url, preferring an unexpired cached
// copy over the network.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !f.noCache {
		if body, ok := f.cached(url); ok {
			logger.Infof("Using cached copy of %s", url)
			return body, nil
		}
	}
	return f.download(ctx, url)
}

func (f *Fetcher) cacheFileName(url string) string {
	sum := sha1.Sum([]byte(url))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:])+"_hosts")
}

// cached returns the cached copy of url if one exists and has not
// outlived the configured expiry. Expired copies are renamed aside so
// the next download starts fresh.
func (f *Fetcher) cached(url string) ([]byte, bool) {
	path := f.cacheFileName(url)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > f.expire {
		if err := os.Rename(path, path+".expired"); err != nil {
			logger.Warnf("Could not retire expired cache file %s: %v", path, err)
		}
		return nil, false
	}
	body, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("Could not read cache file %s: %v", path, err)
		return nil, false
	}
	return body, true
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	logger.Debugf("GET %s", url)

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	res, err := ezhttp.Get(ctx, url, ezhttp.Header("User-Agent", userAgent))
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", url)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", url)
	}
	logger.Debugf("Got %d bytes from %s", len(body), url)

	if !f.noCache {
		if err := f.store(url, body); err != nil {
			logger.Warnf("Could not cache %s: %v", url, err)
		}
	}
	return body, nil
}

func (f *Fetcher) store(url string, body []byte) error {
	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return errors.Wrap(err, "creating cache directory")
	}

	path := f.cacheFileName(url)
	err := osutil.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(body)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "writing cache file for %s", url)
	}

	// The index maps opaque cache file names back to their source URLs.
	index := filepath.Join(f.cacheDir, cacheIndexName)
	return AppendUniqueLine(index, path+" "+url)
}
