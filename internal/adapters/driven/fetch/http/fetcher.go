// Package http provides the document fetcher used by ingestion. It
// downloads pages and PDFs over plain GET with retries for transient
// failures.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultPageTimeout = 30 * time.Second
	DefaultPDFTimeout  = 60 * time.Second
	DefaultMaxRetries  = 2
	DefaultUserAgent   = "advisor-cli/1.0 (+https://github.com/quaystone/advisor-cli)"
	DefaultMaxBodySize = 50 << 20 // 50 MiB
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Config holds configuration for the fetcher.
type Config struct {
	// PageTimeout bounds a single page download (default: 30s).
	PageTimeout time.Duration

	// PDFTimeout bounds a single PDF download; PDFs are larger and
	// slower to serve (default: 60s).
	PDFTimeout time.Duration

	// MaxRetries is how many times a failed download is retried.
	// Only network errors and 5xx responses are retried (default: 2).
	MaxRetries int

	// UserAgent identifies the client to the origin server.
	UserAgent string

	// MaxBodySize caps the downloaded payload (default: 50 MiB).
	MaxBodySize int64

	// RetryDelay is the base backoff between attempts; it doubles per
	// retry (default: 500ms).
	RetryDelay time.Duration
}

// Fetcher downloads documents over HTTP.
type Fetcher struct {
	client      *http.Client
	pageTimeout time.Duration
	pdfTimeout  time.Duration
	maxRetries  int
	userAgent   string
	maxBodySize int64
	retryDelay  time.Duration
}

// New creates a fetcher with the given configuration.
func New(cfg Config) *Fetcher {
	if cfg.PageTimeout == 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	if cfg.PDFTimeout == 0 {
		cfg.PDFTimeout = DefaultPDFTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Fetcher{
		// Per-request deadlines come from the context; the client itself
		// carries no timeout so PDFs can use the longer one.
		client:      &http.Client{},
		pageTimeout: cfg.PageTimeout,
		pdfTimeout:  cfg.PDFTimeout,
		maxRetries:  cfg.MaxRetries,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
		retryDelay:  cfg.RetryDelay,
	}
}

// Fetch downloads the document at url. Network errors and 5xx responses
// are retried with backoff; 4xx responses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: empty URL", domain.ErrInvalidInput)
	}

	timeout := f.pageTimeout
	if looksLikePDF(url) {
		timeout = f.pdfTimeout
	}

	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := f.retryDelay * time.Duration(1<<(attempt-1))
			logger.Debug("retrying %s in %s (attempt %d/%d)", url, delay, attempt, f.maxRetries)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, ctx.Err())
			case <-time.After(delay):
			}
		}

		raw, retryable, err := f.fetchOnce(ctx, url, timeout)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single download attempt. The second return value
// reports whether the failure is worth retrying.
func (f *Fetcher) fetchOnce(ctx context.Context, url string, timeout time.Duration) (*domain.RawDocument, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, url, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: read body: %v", domain.ErrFetchFailed, url, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, false, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrFetchFailed, url, f.maxBodySize)
	}

	mimeType := detectMIMEType(resp.Header.Get("Content-Type"), url, body)
	logger.Debug("fetched %s (%d bytes, %s)", url, len(body), mimeType)

	return &domain.RawDocument{
		URI:      url,
		MIMEType: mimeType,
		Content:  body,
	}, false, nil
}

// detectMIMEType picks the document MIME type from the Content-Type
// header, falling back to the URL suffix and then content sniffing.
func detectMIMEType(contentType, url string, body []byte) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}

	if looksLikePDF(url) {
		return "application/pdf"
	}

	sniffed := http.DetectContentType(body)
	if idx := strings.IndexByte(sniffed, ';'); idx >= 0 {
		sniffed = strings.TrimSpace(sniffed[:idx])
	}
	return sniffed
}

// looksLikePDF reports whether the URL path ends in .pdf, ignoring any
// query string.
func looksLikePDF(url string) bool {
	trimmed := url
	if idx := strings.IndexByte(trimmed, '?'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if idx := strings.IndexByte(trimmed, '#'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.HasSuffix(strings.ToLower(trimmed), ".pdf")
}
