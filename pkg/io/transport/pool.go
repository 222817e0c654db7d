package transport

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// Pool hands out a lazily created, shared http.Client. Reset drops it so the next
// call dials fresh connections.
type Pool struct {
	mu      sync.Mutex
	timeout time.Duration
	client  *http.Client
	factory func(timeout time.Duration) *http.Client
}

func NewPool(timeout time.Duration) *Pool {
	return &Pool{timeout: timeout, factory: defaultClient}
}

// NewPoolWithClient wraps a preconfigured client, mostly for httptest servers.
func NewPoolWithClient(c *http.Client) *Pool {
	return &Pool{
		timeout: c.Timeout,
		client:  c,
		factory: func(time.Duration) *http.Client { return c },
	}
}

func defaultClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}

func (p *Pool) Client() *http.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		p.client = p.factory(p.timeout)
	}
	return p.client
}

func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.CloseIdleConnections()
	}
	p.client = nil
}

// Do sends req and reads the whole body. Non-2xx answers become a *StatusError.
func (p *Pool) Do(provider string, req *http.Request) ([]byte, http.Header, error) {
	resp, err := p.Client().Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.Header, &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	return body, resp.Header, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
