package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSourceURL is the UCI repository location of the dataset.
const DefaultSourceURL = "http://archive.ics.uci.edu/ml/machine-learning-databases/auto-mpg/auto-mpg.data"

// maxSourceBytes caps the downloaded body; the reference file is ~30KB.
const maxSourceBytes = 8 << 20

// Options configures a Loader.
type Options struct {
	// Source is an http(s) URL, a file:// URL or a local path.
	Source string
	// HTTPTimeout bounds each fetch attempt.
	HTTPTimeout time.Duration
	// RetryMaxAttempts is the total number of attempts; 1 disables retries.
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
	// HTTPClient overrides the client built from HTTPTimeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Loader fetches and parses the source exactly once per instance.
type Loader struct {
	opt    Options
	client *http.Client
	logger *slog.Logger

	once    sync.Once
	ds      *Dataset
	err     error
	fetches atomic.Int32
}

// NewLoader applies defaults the same way for every caller.
func NewLoader(opt Options) *Loader {
	if opt.Source == "" {
		opt.Source = DefaultSourceURL
	}
	if opt.HTTPTimeout <= 0 {
		opt.HTTPTimeout = 30 * time.Second
	}
	if opt.RetryMaxAttempts <= 0 {
		opt.RetryMaxAttempts = 1
	}
	if opt.RetryBaseDelay <= 0 {
		opt.RetryBaseDelay = 500 * time.Millisecond
	}
	if opt.RetryMaxDelay <= 0 {
		opt.RetryMaxDelay = 4 * time.Second
	}
	client := opt.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opt.HTTPTimeout}
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opt: opt, client: client, logger: logger}
}

// Load returns the base table. The first call fetches and parses the source;
// later and concurrent calls share that result, including a failure.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	l.once.Do(func() {
		l.ds, l.err = l.load(ctx)
	})
	return l.ds, l.err
}

// Fetches reports how many times the source was actually read.
func (l *Loader) Fetches() int { return int(l.fetches.Load()) }

func (l *Loader) load(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	l.fetches.Add(1)
	body, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.opt.Source, err)
	}
	ds := FromRecords(l.opt.Source, recs)
	missing := 0
	for _, r := range recs {
		if !r.Horsepower.Valid {
			missing++
		}
	}
	l.logger.Info("dataset loaded",
		slog.String("dataset_id", ds.ID),
		slog.String("source", l.opt.Source),
		slog.Int("rows", ds.Len()),
		slog.Int("missing_horsepower", missing),
		slog.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	src := l.opt.Source
	u, err := url.Parse(src)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l.fetch(ctx, src)
		case "file":
			src = u.Path
		}
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, &FetchError{URL: l.opt.Source, Err: err}
	}
	return b, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	maxAttempts := l.opt.RetryMaxAttempts
	backoff := l.opt.RetryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, &FetchError{URL: src, Err: ctx.Err()}
		}
		body, retryable, err := l.fetchOnce(ctx, src)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == maxAttempts {
			break
		}
		sleep := withJitter(backoff)
		if sleep > l.opt.RetryMaxDelay {
			sleep = l.opt.RetryMaxDelay
		}
		l.logger.Warn("fetch failed, retrying",
			slog.String("source", src),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", sleep),
			slog.Any("error", err),
		)
		select {
		case <-ctx.Done():
			return nil, &FetchError{URL: src, Err: ctx.Err()}
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	return nil, lastErr
}

func (l *Loader) fetchOnce(ctx context.Context, src string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, false, &FetchError{URL: src, Err: fmt.Errorf("build request: %w", err)}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, isRetryableNetErr(err), &FetchError{URL: src, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &FetchError{
			URL:        src,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b))),
		}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, isRetryableNetErr(err), &FetchError{URL: src, Err: fmt.Errorf("read body: %w", err)}
	}
	return b, false, nil
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
