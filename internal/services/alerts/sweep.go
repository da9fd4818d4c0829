// Package alerts sweeps for completed transactions that stayed unmatched
// past the stale window and raises one operator alert per transaction.
package alerts

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"bank-reconciliation-engine/internal/models"
)

// RuleStaleTransaction keys the dedup entries in the automation log. The
// sweep must never alert twice for the same transaction under this rule.
const RuleStaleTransaction = "stale_transaction_alert"

const (
	staleAfter      = 5 * 24 * time.Hour
	defaultInterval = time.Hour
	// keeps the first sweep from competing with startup work
	defaultStartDelay = 2 * time.Minute
)

type TransactionStore interface {
	FindStaleUnmatched(olderThan time.Time) ([]models.BankTransaction, error)
}

type AuditLog interface {
	FindEntry(ruleName, entityID string) (*models.AutomationLogEntry, error)
	AppendEntry(ruleName, entityType, entityID, status string, payload []byte) error
}

type NotificationSink interface {
	CreateAlert(title, description string) error
}

type Sweep struct {
	transactions  TransactionStore
	auditLog      AuditLog
	notifications NotificationSink
	interval      time.Duration
	startDelay    time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewSweep(transactions TransactionStore, auditLog AuditLog, notifications NotificationSink) *Sweep {
	return &Sweep{
		transactions:  transactions,
		auditLog:      auditLog,
		notifications: notifications,
		interval:      defaultInterval,
		startDelay:    defaultStartDelay,
		stopCh:        make(chan struct{}),
	}
}

// CheckUnmatched scans for stale unmatched transactions and raises one
// alert per transaction, deduplicated through the automation log so the
// guarantee holds across restarts and multiple instances. A failure on one
// transaction is logged and the sweep continues with the rest.
func (s *Sweep) CheckUnmatched() (int, error) {
	cutoff := time.Now().Add(-staleAfter)
	stale, err := s.transactions.FindStaleUnmatched(cutoff)
	if err != nil {
		return 0, fmt.Errorf("find stale transactions: %w", err)
	}

	alerts := 0
	for _, tx := range stale {
		entry, err := s.auditLog.FindEntry(RuleStaleTransaction, tx.ID.String())
		if err != nil {
			log.Printf("alerts: audit lookup for transaction %s: %v", tx.ExternalID, err)
			continue
		}
		if entry != nil {
			continue
		}

		title := fmt.Sprintf("Unmatched payment: %.2f %s", tx.Amount, tx.Currency)
		description := fmt.Sprintf(
			"Transaction %s from %s (reference %q) has been unmatched for more than %d days.",
			tx.ExternalID, tx.TransactionDate.Format("2006-01-02"), tx.Reference, int(staleAfter.Hours()/24),
		)
		if err := s.notifications.CreateAlert(title, description); err != nil {
			// no log entry written, so the next sweep retries this one
			log.Printf("alerts: create alert for transaction %s: %v", tx.ExternalID, err)
			continue
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"external_id": tx.ExternalID,
			"amount":      tx.Amount,
			"currency":    tx.Currency,
		})
		if err := s.auditLog.AppendEntry(RuleStaleTransaction, "bank_transaction", tx.ID.String(), "alerted", payload); err != nil {
			log.Printf("alerts: append audit entry for transaction %s: %v", tx.ExternalID, err)
			continue
		}
		alerts++
	}

	return alerts, nil
}

// Start runs the sweep loop after a short initial delay, until Stop.
func (s *Sweep) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-s.stopCh:
			return
		case <-time.After(s.startDelay):
		}
		s.runOnce()

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

func (s *Sweep) runOnce() {
	alerts, err := s.CheckUnmatched()
	if err != nil {
		log.Printf("alerts: %v", err)
		return
	}
	if alerts > 0 {
		log.Printf("alerts: %d stale-transaction alerts raised", alerts)
	}
}

func (s *Sweep) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
