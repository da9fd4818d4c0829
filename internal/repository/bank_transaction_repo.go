package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bank-reconciliation-engine/internal/models"
)

type BankTransactionRepository struct {
	db *gorm.DB
}

func NewBankTransactionRepository(db *gorm.DB) *BankTransactionRepository {
	return &BankTransactionRepository{db: db}
}

// IncomingTransaction is one provider observation of a transaction, from
// either the webhook envelope or the polling listing.
type IncomingTransaction struct {
	ExternalID  string
	Amount      float64
	Currency    string
	Description string
	Reference   string
	Date        time.Time
	State       string
	RawPayload  []byte
}

// Upsert stores an incoming transaction keyed by its provider id. A second
// observation of the same id refreshes provider-owned fields only;
// reconciliation fields already set are never touched, so a re-delivered
// event cannot regress a matched transaction.
func (r *BankTransactionRepository) Upsert(in IncomingTransaction) (*models.BankTransaction, error) {
	var existing models.BankTransaction
	err := r.db.First(&existing, "external_id = ?", in.ExternalID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		tx := newFromIncoming(in)
		if err := r.db.Create(tx).Error; err != nil {
			return nil, err
		}
		return tx, nil
	}

	mergeIncoming(&existing, in)
	if err := r.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func newFromIncoming(in IncomingTransaction) *models.BankTransaction {
	return &models.BankTransaction{
		ID:                   uuid.New(),
		ExternalID:           in.ExternalID,
		Amount:               in.Amount,
		Currency:             in.Currency,
		Description:          in.Description,
		Reference:            in.Reference,
		TransactionDate:      in.Date,
		State:                in.State,
		ReconciliationStatus: models.ReconStatusUnmatched,
		RawPayload:           in.RawPayload,
		CreatedAt:            time.Now(),
	}
}

// mergeIncoming refreshes the mutable provider fields on an existing record.
func mergeIncoming(tx *models.BankTransaction, in IncomingTransaction) {
	if in.State != "" {
		tx.State = in.State
	}
	if len(in.RawPayload) > 0 {
		tx.RawPayload = in.RawPayload
	}
	if in.Amount != 0 {
		tx.Amount = in.Amount
	}
	if in.Reference != "" {
		tx.Reference = in.Reference
	}
	if in.Description != "" {
		tx.Description = in.Description
	}
	if !in.Date.IsZero() {
		tx.TransactionDate = in.Date
	}
}

func (r *BankTransactionRepository) Save(tx *models.BankTransaction) error {
	return r.db.Save(tx).Error
}

func (r *BankTransactionRepository) GetByID(id uuid.UUID) (*models.BankTransaction, error) {
	var tx models.BankTransaction
	if err := r.db.First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// FindStaleUnmatched returns completed transactions still unmatched whose
// transaction date is older than the cutoff.
func (r *BankTransactionRepository) FindStaleUnmatched(olderThan time.Time) ([]models.BankTransaction, error) {
	var txs []models.BankTransaction
	err := r.db.
		Where("reconciliation_status = ?", models.ReconStatusUnmatched).
		Where("state = ?", models.StateCompleted).
		Where("transaction_date < ?", olderThan).
		Order("transaction_date ASC").
		Find(&txs).Error
	return txs, err
}

// List returns transactions for the review UI, newest first, optionally
// filtered by reconciliation status.
func (r *BankTransactionRepository) List(status string, limit int) ([]models.BankTransaction, error) {
	var txs []models.BankTransaction
	query := r.db.Order("transaction_date DESC").Limit(limit)
	if status != "" && status != "all" {
		query = query.Where("reconciliation_status = ?", status)
	}
	err := query.Find(&txs).Error
	return txs, err
}
