package tickdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/Decomposer/internal/platform/http"
	"github.com/Alias1177/Decomposer/internal/ticks"
	"github.com/Alias1177/Decomposer/models"
)

// Client fetches recent trade ticks from a REST endpoint
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new tick data client
type ClientOptions struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	RequestsPerSec int
}

// NewClient creates a new tick data API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:        options.RequestTimeout,
		RequestsPerSec: options.RequestsPerSec,
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    options.BaseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "tickdata_client").Logger(),
	}
}

// tradesResponse is the wire shape of the trades endpoint
type tradesResponse struct {
	Symbol string `json:"symbol"`
	Trades []struct {
		Timestamp string  `json:"ts"`
		Price     float64 `json:"price"`
	} `json:"trades"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// GetTicks fetches up to count recent trade ticks for a symbol, ordered
// oldest first.
func (c *Client) GetTicks(ctx context.Context, symbol string, count int) ([]models.Tick, error) {
	endpoint := fmt.Sprintf("%s/trades?symbol=%s&limit=%d&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), count, c.apiKey)

	c.logger.Debug().Str("symbol", symbol).Int("count", count).Msg("Fetching ticks")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data tradesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if data.Status == "error" {
		c.logger.Error().Str("message", data.Message).Msg("Tick data API error")
		return nil, fmt.Errorf("tick data API error: %s", data.Message)
	}

	if len(data.Trades) == 0 {
		return nil, ticks.ErrNoTicks
	}
	if len(data.Trades) < 2 {
		return nil, ticks.ErrNotEnoughTicks
	}

	out := make([]models.Tick, 0, len(data.Trades))
	for i, t := range data.Trades {
		ts, err := time.Parse(time.RFC3339Nano, t.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("trade %d: parsing timestamp %q: %w", i, t.Timestamp, err)
		}
		if t.Price <= 0 {
			return nil, fmt.Errorf("trade %d: price must be positive, got %v", i, t.Price)
		}
		out = append(out, models.Tick{Timestamp: ts, Price: t.Price})
	}

	// Oldest first for proper lagged alignment
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	c.logger.Debug().Int("ticks", len(out)).Msg("Fetched ticks")
	return out, nil
}
