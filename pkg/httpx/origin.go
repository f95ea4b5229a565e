package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ErrMissingHost reports a request without a Host header. That's a malformed
// request and we'd rather fail loudly than quietly classify it same-origin.
var ErrMissingHost = errors.New("httpx: missing Host header")

// IsCrossOrigin reports whether the request's declared Origin differs from
// its effective host. Forwarded-host/port headers (set by proxies) take
// precedence over the Host header. A request without an Origin header is not
// cross-origin: same-origin navigations often omit it.
//
// Ports 80 and 443 are dropped during normalisation, so "https://a.com" and
// "a.com:443" compare equal.
func IsCrossOrigin(origin, host, forwardedHost, forwardedPort string) (bool, error) {
	origin = stripScheme(strings.TrimSpace(origin))
	if origin == "" {
		return false, nil
	}

	if host == "" {
		return false, ErrMissingHost
	}

	// URL parsing needs a scheme; the Host header never carries one.
	initialHost := host
	if !strings.HasPrefix(initialHost, "http://") && !strings.HasPrefix(initialHost, "https://") {
		initialHost = "https://" + initialHost
	}
	hostURL, err := url.Parse(initialHost)
	if err != nil {
		return false, err
	}

	effectiveHost := strings.TrimSpace(forwardedHost)
	if effectiveHost == "" {
		effectiveHost = hostURL.Hostname()
	}

	port := strings.TrimSpace(forwardedPort)
	if port == "" {
		port = hostURL.Port()
	}

	if port != "" && port != "80" && port != "443" {
		effectiveHost = effectiveHost + ":" + port
	}

	return origin != effectiveHost, nil
}

// IsCrossOriginRequest is IsCrossOrigin fed from the request's headers.
func IsCrossOriginRequest(r *http.Request) (bool, error) {
	return IsCrossOrigin(
		r.Header.Get("Origin"),
		r.Host,
		r.Header.Get("X-Forwarded-Host"),
		r.Header.Get("X-Forwarded-Port"),
	)
}

// stripScheme removes a leading "<scheme>://" or bare "//" from s.
func stripScheme(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		prefix := s[:i]
		if prefix == "" || strings.HasSuffix(prefix, ":") {
			return s[i+2:]
		}
	}
	return s
}
