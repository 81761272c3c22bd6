package client

import (
	"fmt"
	"net/http"
	"time"
)

type config struct {
	host    string
	port    int
	baseURL string
	http    *http.Client
}

func defaultConfig() *config {
	return &config{
		host: "127.0.0.1",
		port: 8001,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *config) url() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("http://%s:%d", c.host, c.port)
}

type Option func(*config)

func WithHost(host string) Option {
	return func(c *config) {
		c.host = host
	}
}

func WithPort(port int) Option {
	return func(c *config) {
		c.port = port
	}
}

// WithBaseURL overrides host and port with a full base URL, e.g. for a
// reverse-proxied deployment.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.http = hc
	}
}
