// Package preview fetches a page and derives a link preview (name, image,
// icon) from its metadata. Every failure degrades to a deterministic
// fallback built from the URL alone.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MASHINC1/LinkMan/internal/apperr"
	"github.com/MASHINC1/LinkMan/internal/weburl"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultMaxBytes  = 512 << 10
	defaultUserAgent = "LinkMan/1.0 (+link preview)"
)

// ErrUnsupportedScheme is returned for URLs that are not http or https.
var ErrUnsupportedScheme = fmt.Errorf("unsupported scheme: %w", apperr.ErrInvalidURL)

// Preview is the metadata shown for a link.
type Preview struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Icon  string `json:"icon"`
}

// Result is a preview plus whether it came from the fallback path.
type Result struct {
	Preview
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// Fallback returns the preview derived from the URL alone.
func Fallback(rawURL string) Preview {
	return Preview{
		Name:  weburl.DisplayName(rawURL),
		Image: "",
		Icon:  weburl.FaviconURL(rawURL),
	}
}

// FetcherParams configures a Fetcher. Zero values get defaults.
type FetcherParams struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	Client    *http.Client
	Logger    *slog.Logger
}

// Fetcher retrieves previews over HTTP. Concurrent fetches of the same URL
// share one request.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
	logger    *slog.Logger

	group singleflight.Group
}

// NewFetcher creates a Fetcher.
func NewFetcher(p FetcherParams) *Fetcher {
	f := &Fetcher{
		client:    p.Client,
		timeout:   p.Timeout,
		maxBytes:  p.MaxBytes,
		userAgent: p.UserAgent,
		logger:    p.Logger,
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	if f.timeout <= 0 {
		f.timeout = defaultTimeout
	}
	if f.maxBytes <= 0 {
		f.maxBytes = defaultMaxBytes
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch returns the preview for rawURL. Network problems never produce an
// error, only a fallback result; errors are reserved for invalid input and
// for ctx being cancelled by the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	u, ok := weburl.Normalize(rawURL)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, rawURL)
	}
	if !weburl.IsHTTP(u) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u)
	}

	// The shared fetch outlives any single caller; it is bounded by the timeout.
	ch := f.group.DoChan(u, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		defer cancel()
		return f.fetch(fctx, u), nil
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		return res.Val.(Result), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, u string) Result {
	fallback := func(reason string) Result {
		f.logger.Debug("preview fallback", slog.String("url", u), slog.String("reason", reason))
		return Result{Preview: Fallback(u), Fallback: true, Reason: reason}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fallback(err.Error())
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fallback("timeout")
		}
		return fallback("request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fallback(fmt.Sprintf("status %d", resp.StatusCode))
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return fallback("not html")
	}

	meta, err := parseMeta(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fallback("timeout")
		}
		return fallback("unparseable page")
	}

	base := resp.Request.URL
	p := Fallback(u)
	if meta.title != "" {
		p.Name = meta.title
	}
	if img := resolve(base, meta.image); img != "" && weburl.IsHTTP(img) {
		p.Image = img
	}
	if icon := resolve(base, meta.icon); icon != "" && weburl.IsHTTP(icon) {
		p.Icon = icon
	}
	return Result{Preview: p}
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		return r.String()
	}
	return base.ResolveReference(r).String()
}
