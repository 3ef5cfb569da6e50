package preload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nikbrunner/folio/internal/model"
)

const (
	DefaultConcurrency   = 8
	DefaultTimeout       = 10 * time.Second
	DefaultMaxProbeBytes = 4 << 20
)

var (
	// ErrHTTPStatus is returned when a remote source answers with a non-2xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNoDimensions is returned when a source decodes but reports no usable size.
	ErrNoDimensions = errors.New("no dimensions in media header")
)

// Cache stores resolved dimensions keyed by media source. Implementations
// must be safe for concurrent use.
type Cache interface {
	Lookup(src string) (model.Dimensions, bool, error)
	Store(src string, d model.Dimensions) error
}

// Result holds the probe result for a single media source.
type Result struct {
	Source     string
	Kind       model.Kind
	Dimensions model.Dimensions // zero if the probe failed
	Cached     bool
	Error      string // normalized error message, empty on success
}

// ProgressFunc is called after each source is resolved.
// completed is the number of sources resolved so far, total is the total count.
type ProgressFunc func(completed, total int)

// Params holds parameters for creating a Preloader.
type Params struct {
	Concurrency   int           // optional, DefaultConcurrency if zero
	Timeout       time.Duration // per source, DefaultTimeout if zero
	RateLimit     float64       // sources started per second, zero = unlimited
	MaxProbeBytes int64         // remote read cap, DefaultMaxProbeBytes if zero
	BaseDir       string        // root for relative and site-absolute local sources
	Client        *http.Client  // optional
	Cache         Cache         // optional
	Logger        *zap.Logger   // optional
	OnProgress    ProgressFunc  // optional
}

// Preloader resolves the natural dimensions of gallery media. A failed source
// never fails the batch; it is reported as unknown and layout falls back to
// declared dimensions.
type Preloader struct {
	concurrency int
	timeout     time.Duration
	maxProbe    int64
	baseDir     string
	client      *http.Client
	limiter     *rate.Limiter
	cache       Cache
	logger      *zap.Logger
	onProgress  ProgressFunc
}

// New creates a Preloader, filling in defaults for unset parameters.
func New(params Params) *Preloader {
	p := &Preloader{
		concurrency: params.Concurrency,
		timeout:     params.Timeout,
		maxProbe:    params.MaxProbeBytes,
		baseDir:     params.BaseDir,
		client:      params.Client,
		cache:       params.Cache,
		logger:      params.Logger,
		onProgress:  params.OnProgress,
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultConcurrency
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.maxProbe <= 0 {
		p.maxProbe = DefaultMaxProbeBytes
	}
	if p.client == nil {
		p.client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	if params.RateLimit > 0 {
		burst := int(params.RateLimit)
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(params.RateLimit), burst)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Preload resolves every item and returns the known dimensions keyed by
// source. Sources that failed are absent from the map.
func (p *Preloader) Preload(ctx context.Context, items []model.MediaItem) map[string]model.Dimensions {
	results := p.Resolve(ctx, items)

	dims := make(map[string]model.Dimensions, len(results))
	for _, r := range results {
		if r.Dimensions.Known() {
			dims[r.Source] = r.Dimensions
		}
	}
	return dims
}

// Resolve probes each distinct item source concurrently and returns one
// Result per source, in first-seen order.
func (p *Preloader) Resolve(ctx context.Context, items []model.MediaItem) []Result {
	type job struct {
		src  string
		kind model.Kind
	}

	seen := make(map[string]bool, len(items))
	var jobs []job
	for _, item := range items {
		src := item.Source()
		if seen[src] {
			continue
		}
		seen[src] = true
		jobs = append(jobs, job{src: src, kind: item.Kind()})
	}
	if len(jobs) == 0 {
		return nil
	}

	results := make([]Result, len(jobs))

	var progressMu sync.Mutex
	completed := 0

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, j := range jobs {
		g.Go(func() error {
			results[i] = p.resolve(ctx, j.src, j.kind)

			if p.onProgress != nil {
				progressMu.Lock()
				completed++
				p.onProgress(completed, len(jobs))
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// resolve looks up one source in the cache, probing it on a miss.
func (p *Preloader) resolve(ctx context.Context, src string, kind model.Kind) Result {
	result := Result{Source: src, Kind: kind}

	if p.cache != nil {
		d, ok, err := p.cache.Lookup(src)
		if err != nil {
			p.logger.Warn("dimension cache lookup failed", zap.String("src", src), zap.Error(err))
		} else if ok && d.Known() {
			result.Dimensions = d
			result.Cached = true
			return result
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			result.Error = normalizeError(err.Error())
			return result
		}
	}

	d, err := p.Probe(ctx, src, kind)
	if err != nil {
		result.Error = normalizeError(err.Error())
		p.logger.Debug("media dimensions unavailable",
			zap.String("src", src),
			zap.Stringer("kind", kind),
			zap.String("reason", result.Error),
		)
		return result
	}
	result.Dimensions = d

	if p.cache != nil {
		if err := p.cache.Store(src, d); err != nil {
			p.logger.Warn("dimension cache store failed", zap.String("src", src), zap.Error(err))
		}
	}
	return result
}

// Probe reads just enough of one source to learn its pixel size.
func (p *Preloader) Probe(ctx context.Context, src string, kind model.Kind) (model.Dimensions, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	rc, err := p.open(ctx, src, kind)
	if err != nil {
		return model.Dimensions{}, err
	}
	defer rc.Close()

	if kind == model.KindVideo {
		return probeVideo(rc)
	}
	return probeImage(rc)
}

type limitedBody struct {
	io.Reader
	io.Closer
}

// open returns a reader over a remote or local source. Remote reads are
// capped at maxProbe bytes; remote videos skip boxes with Range requests and
// local files stay seekable.
func (p *Preloader) open(ctx context.Context, src string, kind model.Kind) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
		}
		if kind == model.KindVideo {
			return newRangeReader(ctx, p.client, src, resp.Body, p.maxProbe), nil
		}
		return limitedBody{Reader: io.LimitReader(resp.Body, p.maxProbe), Closer: resp.Body}, nil
	}

	f, err := os.Open(p.localPath(src))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// localPath maps a source to a file path. Site-absolute sources ("/media/a.jpg")
// and relative ones are resolved under baseDir when it is set.
func (p *Preloader) localPath(src string) string {
	path := src
	if u, err := url.Parse(src); err == nil && u.Scheme == "file" {
		path = u.Path
	} else if unescaped, err := url.PathUnescape(src); err == nil {
		path = unescaped
	}

	if p.baseDir == "" {
		return filepath.FromSlash(path)
	}
	return filepath.Join(p.baseDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "context canceled"):
		return "Canceled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "no such file"):
		return "File not found"
	case strings.Contains(lower, "image: unknown format"):
		return "Unsupported image format"
	default:
		return errStr
	}
}
