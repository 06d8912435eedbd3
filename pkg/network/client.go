package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kvasir-sec/reflectix/pkg/config"
	"github.com/kvasir-sec/reflectix/pkg/models"
)

// TransportError wraps a network-level failure. It carries no partial
// response data and is always recoverable by the caller.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client wraps http.Client with retry logic and rate limiting. Two
// underlying clients share one transport so redirect policy can be
// chosen per call.
type Client struct {
	direct      *http.Client // never follows redirects
	redirecting *http.Client
	limiter     *RateLimiter
	headers     map[string]string
}

// NewClient creates a Client with connection pooling scaled to the
// number of concurrent attack tasks.
// rateLimit: requests per second (0 = unlimited)
func NewClient(timeout time.Duration, proxyURL string, concurrency int, rateLimit float64) *Client {
	maxIdleConns := concurrency * 2
	maxIdleConnsPerHost := max(concurrency/2, 10)

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		MaxConnsPerHost:     concurrency,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if proxyURL != "" {
		if pURL, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(pURL)
		}
	}

	return &Client{
		direct: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		redirecting: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		limiter: NewRateLimiter(rateLimit),
		headers: make(map[string]string),
	}
}

// SetHeader adds a header sent with every request (cookies, auth).
func (c *Client) SetHeader(name, value string) {
	c.headers[name] = value
}

// Send issues one probe request and reads the whole body. A network or
// timeout failure is reported as *TransportError; HTTP error statuses
// are not errors.
func (c *Client) Send(ctx context.Context, req *models.Request, followRedirects bool) (*models.Response, error) {
	var body io.Reader
	target := req.FullURL()
	if req.Method == models.MethodPOST {
		body = strings.NewReader(req.EncodedBody())
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), target, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", target, err)
	}
	if req.Method == models.MethodPOST {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	httpReq.Header.Set("User-Agent", config.DefaultUserAgent)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.do(httpReq, followRedirects)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}

	return &models.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       string(bodyBytes),
	}, nil
}

// do sends with automatic retries on network failure and 5xx.
func (c *Client) do(req *http.Request, followRedirects bool) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	client := c.direct
	if followRedirects {
		client = c.redirecting
	}

	var resp *http.Response
	var err error
	maxRetries := 3

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 100ms, 200ms, 400ms
			backoff := time.Duration(math.Pow(2, float64(i-1))*100) * time.Millisecond
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
		}

		resp, err = client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if i == maxRetries {
			break
		}

		// Close body if we are going to retry
		if resp != nil {
			resp.Body.Close()
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
	}
	return resp, nil
}
