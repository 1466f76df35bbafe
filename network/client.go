// Package network provides the HTTP client shared by every call to the download service.
package network

import (
	"net/http"
	"time"
)

// Client talks to a single backend, so the idle pool is sized for one host.
// Per-call deadlines come from the request context; Timeout is only a backstop.
var Client = &http.Client{
	Timeout:   5 * time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 2 * time.Minute
	return t
}
