package clients

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/emzola/locallibrary/config"
)

// maxRedirects is the number of redirects an outbound request may follow.
const maxRedirects = 1

// NewHTTPClient returns the client used for outbound lookups such as the
// Open Library ISBN endpoint. Every request carries the configured
// User-Agent.
func NewHTTPClient(cfg config.Config) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout: cfg.OpenLibrary.Timeout,
		Transport: userAgentTransport{
			agent: cfg.OpenLibrary.UserAgent,
			next:  transport,
		},
		CheckRedirect: limitRedirects,
	}
}

func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) > maxRedirects {
		return fmt.Errorf("stopped after %d redirects at %s", maxRedirects, req.URL)
	}
	return nil
}

type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.agent == "" || req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(req)
}
