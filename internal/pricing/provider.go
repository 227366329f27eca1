// Package pricing implements the token metadata/price provider client and
// the Price Enricher (spec §4.8), grounded on the original's Alchemy
// provider client (rpcs/alchemy_client.py: 5-retry exponential backoff,
// "Token not found" short-circuit) reimplemented against net/http.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	xerrors "xchaindata.backend/internal/domain/errors"
)

// PricePoint is one {timestamp, value} entry from the provider's historical
// price series (spec §6).
type PricePoint struct {
	Timestamp time.Time
	Value     float64
}

// Metadata is the provider's token metadata response shape (spec §6).
type Metadata struct {
	Symbol   string
	Name     string
	Decimals int
}

// Client talks to the external token metadata/price provider. Transient
// HTTP errors are retried with exponential backoff up to 5 attempts
// (1, 2, 4, 8, 16 s) and then return nil (spec §4.8).
type Client struct {
	httpClient  *http.Client
	apiKey      string
	metadataURL string
	priceURL    string
	sleep       func(time.Duration)
}

// NewClient builds a provider Client.
func NewClient(apiKey, metadataURL, priceURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      apiKey,
		metadataURL: metadataURL,
		priceURL:    priceURL,
		sleep:       time.Sleep,
	}
}

var retryDelays = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second}

// FetchMetadataBySymbolOrAddress calls alchemy_getTokenMetadata-equivalent.
// Unsupported tokens return (nil, nil) matching the provider's documented
// empty-object response for unknown tokens.
func (c *Client) FetchMetadataBySymbolOrAddress(ctx context.Context, chain, address string) (*Metadata, error) {
	body, _ := json.Marshal(map[string]any{
		"network": chain,
		"address": address,
	})
	raw, err := c.postWithRetry(ctx, fmt.Sprintf("%s/v2/%s", c.metadataURL, c.apiKey), body)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var out struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals int    `json:"decimals"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, xerrors.ProviderError("malformed metadata response", err)
	}
	if out.Symbol == "" {
		return nil, nil
	}
	return &Metadata{Symbol: out.Symbol, Name: out.Name, Decimals: out.Decimals}, nil
}

// FetchHistoricalPrices calls the provider's historical price endpoint for
// either a symbol or a (chain, address) pair over [startTS, endTS] at daily
// granularity.
func (c *Client) FetchHistoricalPrices(ctx context.Context, symbol, chain, address string, startTS, endTS int64) ([]PricePoint, error) {
	payload := map[string]any{
		"startTime": time.Unix(startTS, 0).UTC().Format(time.RFC3339),
		"endTime":   time.Unix(endTS, 0).UTC().Format(time.RFC3339),
		"interval":  "1d",
	}
	if symbol != "" {
		payload["symbol"] = symbol
	} else {
		payload["network"] = chain
		payload["address"] = address
	}
	body, _ := json.Marshal(payload)

	raw, err := c.postWithRetry(ctx, fmt.Sprintf("%s/%s/tokens/historical", c.priceURL, c.apiKey), body)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var out struct {
		Data []struct {
			Timestamp string  `json:"timestamp"`
			Value     float64 `json:"value,string"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, xerrors.ProviderError("malformed price response", err)
	}

	points := make([]PricePoint, 0, len(out.Data))
	for _, d := range out.Data {
		ts, err := time.Parse(time.RFC3339, d.Timestamp)
		if err != nil {
			continue
		}
		points = append(points, PricePoint{Timestamp: ts, Value: d.Value})
	}
	return points, nil
}

// postWithRetry POSTs the request body, retrying transient failures with
// the fixed backoff schedule. After the final attempt fails, it returns
// (nil, nil) — a provider outage degrades to "no data", not a fatal error
// (spec §4.8, Testable Properties scenario 6).
func (c *Client) postWithRetry(ctx context.Context, url string, body []byte) (json.RawMessage, error) {
	for attempt := 0; attempt <= len(retryDelays); attempt++ {
		raw, retryable, err := c.post(ctx, url, body)
		if err == nil {
			return raw, nil
		}
		if !retryable || attempt == len(retryDelays) {
			return nil, nil
		}
		c.sleep(retryDelays[attempt])
	}
	return nil, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, true, fmt.Errorf("non-2xx status %d", resp.StatusCode)
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, true, err
	}
	return raw, false, nil
}
