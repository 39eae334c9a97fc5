package soap

import (
	"net/http"

	"github.com/cheyinl/sequoia-api/internal/logging"
)

// HostRewriter redirects requests addressed to the host:port From onto To.
// Path, query and body are left as they are. Requests for any other host
// pass through untouched.
type HostRewriter struct {
	From string
	To   string
	Next http.RoundTripper
	Log  logging.Logger
}

// RoundTrip implements http.RoundTripper.
func (h *HostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	next := h.Next
	if next == nil {
		next = http.DefaultTransport
	}
	if req.URL == nil || req.URL.Host != h.From {
		return next.RoundTrip(req)
	}

	// a RoundTripper must not modify the caller's request
	out := req.Clone(req.Context())
	out.URL.Host = h.To
	out.Host = h.To
	if h.Log != nil {
		h.Log.Debug("rewrite request URL:", req.URL.String(), "->", out.URL.String())
	}
	return next.RoundTrip(out)
}
