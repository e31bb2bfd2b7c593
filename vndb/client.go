package vndb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultAPIHost = "https://api.vndb.org/kana"

// APIError is returned when the API answers with a non-2xx status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vndb api returned status %d: %s", e.StatusCode, e.Body)
}

type ClientConfig struct {
	// Host is the API base URL, e.g. https://api.vndb.org/kana
	Host string

	// Token is an optional API token sent as "Authorization: Token <token>"
	Token string

	UserAgent string

	// HTTPClient defaults to a client with a 30 second timeout
	HTTPClient *http.Client
}

type Client struct {
	host      string
	token     string
	userAgent string
	http      *http.Client
}

func NewClient(config ClientConfig) *Client {
	host := strings.TrimRight(config.Host, "/")
	if host == "" {
		host = DefaultAPIHost
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		host:      host,
		token:     config.Token,
		userAgent: config.UserAgent,
		http:      httpClient,
	}
}

// Releases runs a release query against POST {host}/release
func (c *Client) Releases(ctx context.Context, query *ReleaseQuery) (*ReleaseResponse, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode release query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/release", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read release response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithFields(log.Fields{
			"status":  resp.StatusCode,
			"message": string(body),
		}).Error("VNDB release query failed")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out ReleaseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode release response: %w", err)
	}

	return &out, nil
}
