package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Reconciliation statuses for a bank transaction.
const (
	ReconStatusUnmatched     = "unmatched"
	ReconStatusAutoMatched   = "auto_matched"
	ReconStatusManualMatched = "manual_matched"
)

// Provider lifecycle state we act on.
const StateCompleted = "completed"

type BankTransaction struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID           string    `gorm:"uniqueIndex"`
	Amount               float64   `gorm:"index"`
	Currency             string
	Description          string
	Reference            string
	TransactionDate      time.Time `gorm:"column:transaction_date"`
	State                string    `gorm:"index"`
	ReconciliationStatus string    `gorm:"index"`
	MatchedInvoiceID     *uuid.UUID
	ConfidenceScore      float64
	MatchMethod          string
	MatchDetails         datatypes.JSON
	RawPayload           datatypes.JSON
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
