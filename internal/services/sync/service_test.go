package sync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/provider"
	"bank-reconciliation-engine/internal/repository"
	"bank-reconciliation-engine/internal/services/reconciliation"
	syncsvc "bank-reconciliation-engine/internal/services/sync"
)

type fakeClient struct {
	transactions []provider.Transaction
	err          error
}

func (f *fakeClient) ListTransactions(ctx context.Context, from, to time.Time, count int) ([]provider.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transactions, nil
}

type fakeStore struct {
	upserts []repository.IncomingTransaction
	failIDs map[string]bool
}

func (f *fakeStore) Upsert(in repository.IncomingTransaction) (*models.BankTransaction, error) {
	if f.failIDs[in.ExternalID] {
		return nil, errors.New("store down")
	}
	f.upserts = append(f.upserts, in)
	return &models.BankTransaction{
		ID:                   uuid.New(),
		ExternalID:           in.ExternalID,
		State:                in.State,
		ReconciliationStatus: models.ReconStatusUnmatched,
	}, nil
}

type fakeReconciler struct {
	reconciled []string
}

func (f *fakeReconciler) Reconcile(tx *models.BankTransaction) (*reconciliation.Result, error) {
	f.reconciled = append(f.reconciled, tx.ExternalID)
	return &reconciliation.Result{}, nil
}

func TestSyncRecent_UpsertsAndReconcilesCompleted(t *testing.T) {
	client := &fakeClient{transactions: []provider.Transaction{
		{ID: "tx1", Amount: -1250, State: "completed", Date: "2025-03-10"},
		{ID: "tx2", Amount: -300, State: "pending", Date: "2025-03-11"},
	}}
	store := &fakeStore{}
	recon := &fakeReconciler{}
	svc := syncsvc.NewService(client, store, recon)

	synced, total, err := svc.SyncRecent(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 2, synced)
	assert.Equal(t, 2, total)
	assert.Len(t, store.upserts, 2)
	assert.Equal(t, []string{"tx1"}, recon.reconciled)
}

func TestSyncRecent_OneFailureDoesNotAbortBatch(t *testing.T) {
	client := &fakeClient{transactions: []provider.Transaction{
		{ID: "tx1", State: "completed"},
		{ID: "tx2", State: "completed"},
		{ID: "tx3", State: "completed"},
	}}
	store := &fakeStore{failIDs: map[string]bool{"tx2": true}}
	recon := &fakeReconciler{}
	svc := syncsvc.NewService(client, store, recon)

	synced, total, err := svc.SyncRecent(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 2, synced)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"tx1", "tx3"}, recon.reconciled)
}

func TestSyncRecent_ProviderError(t *testing.T) {
	client := &fakeClient{err: errors.New("provider unreachable")}
	svc := syncsvc.NewService(client, &fakeStore{}, &fakeReconciler{})

	_, _, err := svc.SyncRecent(context.Background(), 24)
	assert.Error(t, err)
}

func TestSyncRecent_UnparseableDateStillSynced(t *testing.T) {
	client := &fakeClient{transactions: []provider.Transaction{
		{ID: "tx1", State: "completed", Date: "not-a-date"},
	}}
	store := &fakeStore{}
	svc := syncsvc.NewService(client, store, &fakeReconciler{})

	synced, _, err := svc.SyncRecent(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 1, synced)
	assert.True(t, store.upserts[0].Date.IsZero())
}
