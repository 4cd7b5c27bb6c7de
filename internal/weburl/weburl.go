// Package weburl normalizes user-typed URLs and derives display data from them.
package weburl

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const faviconService = "https://www.google.com/s2/favicons"

// Normalize turns user input into an absolute URL.
// Input without a scheme is retried with an "https://" prefix.
// Returns false if neither form parses.
func Normalize(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if u, ok := parseAbsolute(input); ok {
		return u.String(), true
	}
	if u, ok := parseAbsolute("https://" + input); ok {
		return u.String(), true
	}
	return "", false
}

// parseAbsolute accepts only URLs with a scheme; http(s) also need a host.
func parseAbsolute(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	if isHTTPScheme(u.Scheme) {
		if u.Hostname() == "" || strings.HasSuffix(u.Host, ":") {
			return nil, false
		}
		u.Host = strings.ToLower(u.Host)
		if u.Path == "" && u.Opaque == "" {
			u.Path = "/"
		}
	} else if u.Opaque == "" && u.Host == "" && u.Path == "" {
		return nil, false
	}
	return u, true
}

// IsHTTP reports whether raw is an absolute http or https URL.
func IsHTTP(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return isHTTPScheme(u.Scheme) && u.Host != ""
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

// Hostname returns the lower-cased host of raw without port, or "".
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HostLabel returns the first label of the host with a leading "www." removed,
// e.g. "news" for https://news.ycombinator.com.
func HostLabel(raw string) string {
	host := strings.TrimPrefix(Hostname(raw), "www.")
	if host == "" {
		return ""
	}
	label, _, _ := strings.Cut(host, ".")
	return label
}

// DisplayName derives a link name from its URL: the host label with the first
// letter upper-cased. Falls back to the raw URL when there is no host.
func DisplayName(raw string) string {
	label := HostLabel(raw)
	if label == "" {
		return raw
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// FaviconURL returns the favicon-service URL for the URL's domain.
func FaviconURL(raw string) string {
	host := Hostname(raw)
	if host == "" {
		host = raw
	}
	return faviconService + "?domain=" + url.QueryEscape(host) + "&sz=64"
}
