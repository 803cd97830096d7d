// Package pricefeed is the boundary to the external spot-price feed.
package pricefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Fetcher fetches USD spot prices for feed ids.
type Fetcher interface {
	SimplePrice(ctx context.Context, ids []string) (map[string]float64, error)
}

// Client calls a CoinGecko-style simple/price endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// SimplePrice returns USD prices keyed by feed id. Ids the feed does not
// know are simply absent from the result.
func (c *Client) SimplePrice(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price feed call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read price feed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed status %d", resp.StatusCode)
	}

	var parsed map[string]map[string]float64
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode price feed response: %w", err)
	}

	out := make(map[string]float64, len(parsed))
	for id, quotes := range parsed {
		if usd, ok := quotes["usd"]; ok {
			out[id] = usd
		}
	}
	return out, nil
}
