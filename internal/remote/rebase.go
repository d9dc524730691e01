package remote

import (
	"net/http"
	"net/url"
	"strings"
)

// RebaseTransport sends every request to Base instead of its original host.
// SDKs with a fixed API host are pointed at a configured or test server this way.
// Base's path, if any, is prefixed to the request path.
type RebaseTransport struct {
	Base *url.URL
	Next http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *RebaseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.Base.Scheme
	r.URL.Host = t.Base.Host
	r.Host = t.Base.Host
	if prefix := strings.TrimRight(t.Base.Path, "/"); prefix != "" {
		r.URL.Path = prefix + r.URL.Path
		if r.URL.RawPath != "" {
			r.URL.RawPath = prefix + r.URL.RawPath
		}
	}

	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(r)
}

// Rebase returns a transport that redirects to baseURL, or next unchanged when
// baseURL is empty or equals defaultURL.
func Rebase(baseURL, defaultURL string, next http.RoundTripper) (http.RoundTripper, error) {
	if baseURL == "" || strings.TrimRight(baseURL, "/") == strings.TrimRight(defaultURL, "/") {
		return next, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &RebaseTransport{Base: u, Next: next}, nil
}
