// Package culler checks saved links for dead or unreachable URLs.
package culler

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MASHINC1/LinkMan/internal/model"
	"github.com/MASHINC1/LinkMan/internal/weburl"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
	Skipped                   // not an http(s) link
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result holds the check result for a single link.
type Result struct {
	Link       model.Link `json:"link"`
	Status     Status     `json:"status"`
	StatusCode int        `json:"statusCode,omitempty"` // 0 if connection failed
	Error      string     `json:"error,omitempty"`
}

// ProgressFunc is called after each URL is checked.
// completed is the number of URLs checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// Params configures CheckURLs.
type Params struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists domains where a 404 usually means "private"
	// rather than dead, e.g. github.com.
	ExcludeDomains []string
	OnProgress     ProgressFunc
	Client         *http.Client
}

// CheckURLs checks all link URLs concurrently. Results keep the order of
// links. Cancelling ctx stops pending checks; their results report
// Unreachable.
func CheckURLs(ctx context.Context, links []model.Link, p Params) []Result {
	if len(links) == 0 {
		return nil
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 10
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}

	excludeMap := make(map[string]bool)
	for _, domain := range p.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	client := p.Client
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	results := make([]Result, len(links))

	var progressMu sync.Mutex
	completed := 0

	g := new(errgroup.Group)
	g.SetLimit(p.Concurrency)
	for i := range links {
		g.Go(func() error {
			results[i] = checkURL(ctx, client, p.Timeout, links[i], excludeMap)

			if p.OnProgress != nil {
				progressMu.Lock()
				completed++
				p.OnProgress(completed, len(links))
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// checkURL checks a single URL and returns the result.
func checkURL(ctx context.Context, client *http.Client, timeout time.Duration, link model.Link, excludeMap map[string]bool) Result {
	result := Result{Link: link}

	if !weburl.IsHTTP(link.URL) {
		result.Status = Skipped
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Try HEAD first; some servers only answer GET.
	resp, err := do(ctx, client, http.MethodHead, link.URL)
	if err != nil || resp.StatusCode == http.StatusMethodNotAllowed {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = do(ctx, client, http.MethodGet, link.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == 404 || resp.StatusCode == 410:
		if isExcludedDomain(link.URL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 403, 5xx and friends may be temporary or auth-gated.
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain checks if the URL's domain or a parent domain is in the
// exclude list ("api.github.com" matches "github.com").
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	host := weburl.Hostname(rawURL)
	if host == "" {
		return false
	}
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Summary counts results per status.
func Summary(results []Result) map[Status]int {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
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
		return "Cancelled"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
