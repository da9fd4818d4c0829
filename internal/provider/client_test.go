package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-reconciliation-engine/internal/provider"
)

func TestListTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/transactions", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("count"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transactions":[{"id":"tx1","amount":-1250.00,"currency":"CHF","state":"completed","date":"2025-03-10"}]}`))
	}))
	defer server.Close()

	client := provider.NewClient(server.URL, "test-token")
	from := time.Now().Add(-24 * time.Hour)

	txs, err := client.ListTransactions(context.Background(), from, time.Now(), 100)
	require.NoError(t, err)

	require.Len(t, txs, 1)
	assert.Equal(t, "tx1", txs[0].ID)
	assert.Equal(t, -1250.00, txs[0].Amount)
}

func TestListTransactions_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := provider.NewClient(server.URL, "test-token")
	_, err := client.ListTransactions(context.Background(), time.Now(), time.Now(), 10)
	assert.Error(t, err)
}

func TestParsedDate(t *testing.T) {
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		provider.Transaction{Date: "2025-03-10"}.ParsedDate())
	assert.False(t, provider.Transaction{Date: "2025-03-10T08:30:00Z"}.ParsedDate().IsZero())
	assert.True(t, provider.Transaction{Date: "10.03.2025"}.ParsedDate().IsZero())
	assert.True(t, provider.Transaction{}.ParsedDate().IsZero())
}
