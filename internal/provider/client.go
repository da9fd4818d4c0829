// Package provider is a minimal client for the payment provider's
// transaction API, used by the polling fallback and shared with the
// webhook envelope.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Transaction is the provider's wire representation of a ledger entry.
type Transaction struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Reference   string  `json:"reference"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	State       string  `json:"state"`
}

// ParsedDate returns the transaction date, accepting RFC 3339 or a bare
// date. A non-parseable date yields the zero time; scoring treats that as
// no date signal rather than an error.
func (t Transaction) ParsedDate() time.Time {
	if d, err := time.Parse(time.RFC3339, t.Date); err == nil {
		return d
	}
	if d, err := time.Parse("2006-01-02", t.Date); err == nil {
		return d
	}
	return time.Time{}
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		// bounded so a slow provider cannot stall the polling loop
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// ListTransactions pages the provider's transaction listing between two
// instants, newest first, up to count entries.
func (c *Client) ListTransactions(ctx context.Context, from, to time.Time, count int) ([]Transaction, error) {
	endpoint, err := url.Parse(c.baseURL + "/v2/transactions")
	if err != nil {
		return nil, fmt.Errorf("provider url: %w", err)
	}
	q := endpoint.Query()
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	q.Set("count", strconv.Itoa(count))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list transactions: provider returned %d", resp.StatusCode)
	}

	var payload struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode transaction listing: %w", err)
	}
	return payload.Transactions, nil
}
