// Package fetch is the single HTTP egress point for page retrieval. Every
// crawler goes through a Fetcher so politeness (per-host rate limits, an
// advisory inter-request delay, browser-like headers) is applied uniformly.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jobboard-engine/internal/metrics"
)

// Options tunes a Fetcher. Zero values fall back to conservative defaults.
type Options struct {
	Timeout   time.Duration
	Delay     time.Duration
	PerHost   float64
	Burst     int
	UserAgent string
}

// Fetcher retrieves pages with browser-like headers and per-host rate
// limiting. Fetch never returns an error: failures are logged and reported
// through the ok flag so crawl loops degrade to partial results.
type Fetcher struct {
	hc      *http.Client
	limiter *HostLimiter
	delay   time.Duration
	ua      string
	log     *zap.Logger
}

func New(opts Options, log *zap.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.PerHost <= 0 {
		opts.PerHost = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	return &Fetcher{
		hc:      &http.Client{Timeout: opts.Timeout},
		limiter: NewHostLimiter(opts.PerHost, opts.Burst),
		delay:   opts.Delay,
		ua:      opts.UserAgent,
		log:     log,
	}
}

// Fetch retrieves url and returns its body. ok is false on any failure:
// context cancellation, transport error, or a non-2xx status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, bool) {
	if err := f.limiter.WaitURL(ctx, url); err != nil {
		f.log.Warn("fetch aborted waiting for rate limit", zap.String("url", url), zap.Error(err))
		metrics.FetchesTotal.WithLabelValues("error").Inc()
		return "", false
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			metrics.FetchesTotal.WithLabelValues("error").Inc()
			return "", false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.log.Warn("fetch bad url", zap.String("url", url), zap.Error(err))
		metrics.FetchesTotal.WithLabelValues("error").Inc()
		return "", false
	}
	req.Header.Set("User-Agent", f.ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := f.hc.Do(req)
	if err != nil {
		f.log.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		metrics.FetchesTotal.WithLabelValues("error").Inc()
		return "", false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		f.log.Warn("fetch bad status", zap.String("url", url), zap.Int("status", res.StatusCode))
		metrics.FetchesTotal.WithLabelValues("status").Inc()
		return "", false
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		f.log.Warn("fetch read body", zap.String("url", url), zap.Error(err))
		metrics.FetchesTotal.WithLabelValues("error").Inc()
		return "", false
	}

	metrics.FetchesTotal.WithLabelValues("ok").Inc()
	return string(body), true
}

// Close releases idle connections held by the underlying client.
func (f *Fetcher) Close() {
	f.hc.CloseIdleConnections()
}
