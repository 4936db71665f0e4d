package api

// REMOTE CATALOG CLIENT

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"detailing-bot/internal/catalog"

	"go.uber.org/zap"
)

// Client reads the catalog published by another deployment's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ catalog.Provider = (*Client)(nil)

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Catalog fetches GET {base}/api/catalog.
func (c *Client) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/api/catalog", c.baseURL),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var snap catalog.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	cat, err := catalog.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("remote catalog: %w", err)
	}

	c.logger.Debug("Fetched remote catalog",
		zap.String("base_url", c.baseURL),
		zap.Int("services", len(snap.Services)),
		zap.Int("packages", len(snap.Packages)))
	return cat, nil
}
