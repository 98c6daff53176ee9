package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Client reads from the headless content API. Every request carries the
// bearer token and goes through a circuit breaker so a flapping
// upstream degrades to fast failures instead of piling up goroutines.
type Client struct {
	host    string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewClient(host, token string, logger *log.Logger) (*Client, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("content api host not configured")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("content api token not configured")
	}
	if _, err := url.Parse(host); err != nil {
		return nil, fmt.Errorf("parse content api host: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:    "content-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{
		host:    host,
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
	}, nil
}

// Fetch resolves path against the configured host and returns the
// response body on HTTP success.
func (c *Client) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	return c.breaker.Execute(func() (json.RawMessage, error) {
		return c.fetch(ctx, path)
	})
}

func (c *Client) fetch(ctx context.Context, path string) (json.RawMessage, error) {
	base, err := url.Parse(c.host)
	if err != nil {
		return nil, fmt.Errorf("parse host: %w", err)
	}
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	target := base.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("content api status %d for %s", resp.StatusCode, rel.Path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read content api response: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("content api returned invalid json")
	}
	return body, nil
}
