package common

import (
	"bytes"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/net/http2"
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type RetrySetting struct {
	MaxRetries  int
	Concurrency int
	Backoff     pester.BackoffStrategy
}

var DefaultRetrySetting = RetrySetting{
	MaxRetries:  3,
	Concurrency: 1,
	Backoff:     pester.ExponentialBackoff,
}

// HTTP2ClientConfig is the setting of HTTP2Client. With KeepAlive the
// timeouts are ignored, so long-lived event streams are not cut.
type HTTP2ClientConfig struct {
	Timeout     time.Duration
	IdleTimeout time.Duration
	DialTimeout time.Duration
	KeepAlive   bool

	// Retry is used for Get, Post and Do; nil does not retry.
	Retry *RetrySetting
}

var DefaultHTTP2ClientConfig = HTTP2ClientConfig{
	DialTimeout: 3 * time.Second,
	KeepAlive:   true,
	Retry:       &DefaultRetrySetting,
}

// HTTP2Client talks to the node API; HTTP/2 over TLS and HTTP/1.1 to plain
// endpoints. Server certificates are not verified since nodes usually
// run with self-signed ones.
type HTTP2Client struct {
	config    HTTP2ClientConfig
	client    *http.Client
	retrying  HTTPDoer
	transport *http.Transport
}

func NewHTTP2Client(config HTTP2ClientConfig) (*HTTP2Client, error) {
	timeout, idleTimeout := config.Timeout, config.IdleTimeout
	if config.KeepAlive {
		timeout, idleTimeout = 0, 0
	}
	dialTimeout := config.DialTimeout
	if dialTimeout < 1 {
		dialTimeout = DefaultHTTP2ClientConfig.DialTimeout
	}

	transport := &http.Transport{
		TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
		IdleConnTimeout:   idleTimeout,
		DisableKeepAlives: !config.KeepAlive,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: time.Second,
			DualStack: true,
		}).DialContext,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, err
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	c := &HTTP2Client{
		config:    config,
		client:    client,
		retrying:  client,
		transport: transport,
	}

	if r := config.Retry; r != nil {
		ec := pester.NewExtendedClient(client)
		ec.MaxRetries = r.MaxRetries
		ec.Concurrency = r.Concurrency
		ec.Backoff = r.Backoff
		c.retrying = ec
	}

	return c, nil
}

func (c *HTTP2Client) Close() {
	c.transport.CloseIdleConnections()
}

func (c *HTTP2Client) Get(url string, headers http.Header) (*http.Response, error) {
	return c.request("GET", url, nil, headers)
}

func (c *HTTP2Client) Post(url string, b []byte, headers http.Header) (*http.Response, error) {
	return c.request("POST", url, bytes.NewReader(b), headers)
}

func (c *HTTP2Client) request(method, url string, body io.Reader, headers http.Header) (*http.Response, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if headers != nil {
		req.Header = headers
	}

	return c.Do(req)
}

// Do sends the request with the retry setting.
func (c *HTTP2Client) Do(req *http.Request) (*http.Response, error) {
	return c.retrying.Do(req)
}

// DoOnce sends the request without retrying. Streams use it: once the
// server started writing, a retry would replay the stream from scratch.
func (c *HTTP2Client) DoOnce(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
