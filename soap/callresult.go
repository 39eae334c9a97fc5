package soap

import (
	"net/http"
	"time"
)

type CallContent struct {
	Header http.Header
	Body   string
}

// CallResult records one round trip as it went over the wire.
type CallResult struct {
	RequestURL      string
	StatusCode      int
	RequestContent  CallContent
	ResponseContent CallContent
	InvokeAt        time.Time
	ReturnAt        time.Time
	DecodedAt       time.Time
}

// Elapsed is the time between sending the request and reading the full response.
func (r *CallResult) Elapsed() time.Duration {
	if r == nil || r.ReturnAt.IsZero() {
		return 0
	}
	return r.ReturnAt.Sub(r.InvokeAt)
}
