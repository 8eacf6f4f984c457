// Package sheet fetches the published menu sheet and parses its rows into
// the feed model the reconciler consumes.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	apperrors "github.com/dinecat/dinecat/internal/errors"
	"github.com/dinecat/dinecat/internal/httpclient"
)

// Config holds the sheet endpoint settings.
type Config struct {
	URL    string
	APIKey string
}

// Client downloads the sheet export as CSV. Transient fetch failures are
// retried with backoff before the run is given up.
type Client struct {
	config Config
	http   *http.Client
	log    *slog.Logger
}

// NewClient creates a new sheet client.
func NewClient(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default().With("component", "sheet")
	}
	return &Client{
		config: config,
		http:   httpclient.New(),
		log:    logger,
	}
}

// Fetch downloads and decodes the sheet rows. Rows may be ragged; the parser
// is responsible for shape checks.
func (c *Client) Fetch(ctx context.Context) ([][]string, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	var rows [][]string
	err = retry.Do(
		func() error {
			rows, err = c.fetchOnce(ctx, endpoint)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.RetryIf(func(err error) bool {
			return !apperrors.IsNonRetryable(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("sheet fetch failed, retrying", "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}

	return rows, nil
}

func (c *Client) endpoint() (string, error) {
	parsed, err := url.Parse(c.config.URL)
	if err != nil {
		return "", fmt.Errorf("invalid sheet url: %w", err)
	}

	if c.config.APIKey != "" {
		query := parsed.Query()
		query.Set("key", c.config.APIKey)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build sheet request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("sheet request returned status %d", resp.StatusCode)
		// Client errors (bad key, bad sheet id) will not heal on retry.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, apperrors.NewNonRetryableError("sheet request rejected", err)
		}
		return nil, err
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode sheet csv: %w", err)
	}

	return rows, nil
}
