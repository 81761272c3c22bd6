package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Runner mirrors the server's wire shape of one runner record.
type Runner struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CardNumber  int    `json:"cardNumber,omitempty"`
	ClubNumber  int    `json:"clubNumber,omitempty"`
	BirthYear   int    `json:"birthYear,omitempty"`
	Sex         string `json:"sex,omitempty"`
	Nationality string `json:"nationality,omitempty"`
}

// FullName returns the runner's display name.
func (r Runner) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// Stats mirrors the server's /api/stats response.
type Stats struct {
	TotalRunners int       `json:"totalRunners"`
	FilePath     string    `json:"filePath"`
	LastModified time.Time `json:"lastModified"`
	LastChecked  time.Time `json:"lastChecked"`
}

type Client struct {
	cfg *config
}

// New builds a client for a runnerdb server, defaulting to
// http://127.0.0.1:8001.
func New(opts ...Option) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{cfg: cfg}
}

// Search returns ranked runners matching term, at most limit. A limit of 0
// uses the server default.
func (c *Client) Search(term string, limit int) ([]Runner, error) {
	q := url.Values{"q": {term}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var body struct {
		Results []Runner `json:"results"`
	}
	if err := c.get("/api/search?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	return body.Results, nil
}

// AllRunners returns every indexed runner.
func (c *Client) AllRunners() ([]Runner, error) {
	var body struct {
		Runners []Runner `json:"runners"`
	}
	if err := c.get("/api/runners", &body); err != nil {
		return nil, err
	}
	return body.Runners, nil
}

// Stats returns index size and source file metadata.
func (c *Client) Stats() (Stats, error) {
	var stats Stats
	err := c.get("/api/stats", &stats)
	return stats, err
}

func (c *Client) get(path string, out any) error {
	resp, err := c.cfg.http.Get(c.cfg.url() + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server: unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
