// Package sync is the polling fallback to the webhook path: it replays the
// provider's recent transaction listing through the same idempotent upsert
// and reconciliation, covering missed or failed webhook deliveries.
package sync

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/provider"
	"bank-reconciliation-engine/internal/repository"
	"bank-reconciliation-engine/internal/services/reconciliation"
)

const (
	defaultInterval  = time.Hour
	defaultHoursBack = 24
	pageSize         = 100
)

type ProviderClient interface {
	ListTransactions(ctx context.Context, from, to time.Time, count int) ([]provider.Transaction, error)
}

type TransactionStore interface {
	Upsert(in repository.IncomingTransaction) (*models.BankTransaction, error)
}

type Reconciler interface {
	Reconcile(tx *models.BankTransaction) (*reconciliation.Result, error)
}

type Service struct {
	client       ProviderClient
	transactions TransactionStore
	recon        Reconciler
	interval     time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewService(client ProviderClient, transactions TransactionStore, recon Reconciler) *Service {
	return &Service{
		client:       client,
		transactions: transactions,
		recon:        recon,
		interval:     defaultInterval,
		stopCh:       make(chan struct{}),
	}
}

// SyncRecent pages the provider listing for the past hoursBack hours and
// upserts every entry, reconciling those that completed. Upsert is
// idempotent per external id, so running concurrently with webhook
// processing is safe. One bad transaction never aborts the batch.
func (s *Service) SyncRecent(ctx context.Context, hoursBack int) (synced, total int, err error) {
	now := time.Now()
	from := now.Add(-time.Duration(hoursBack) * time.Hour)

	items, err := s.client.ListTransactions(ctx, from, now, pageSize)
	if err != nil {
		return 0, 0, fmt.Errorf("sync: %w", err)
	}

	for _, item := range items {
		tx, err := s.transactions.Upsert(repository.IncomingTransaction{
			ExternalID:  item.ID,
			Amount:      item.Amount,
			Currency:    item.Currency,
			Description: item.Description,
			Reference:   item.Reference,
			Date:        item.ParsedDate(),
			State:       item.State,
		})
		if err != nil {
			log.Printf("sync: upsert transaction %s: %v", item.ID, err)
			continue
		}
		if tx.State == models.StateCompleted {
			if _, err := s.recon.Reconcile(tx); err != nil {
				log.Printf("sync: reconcile transaction %s: %v", item.ID, err)
				continue
			}
		}
		synced++
	}

	return synced, len(items), nil
}

// Start runs the polling loop until Stop is called.
func (s *Service) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
}

func (s *Service) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	synced, total, err := s.SyncRecent(ctx, defaultHoursBack)
	if err != nil {
		log.Printf("sync: %v", err)
		return
	}
	log.Printf("sync: %d/%d transactions synced", synced, total)
}

func (s *Service) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
