package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	InvoiceStatusSent    = "sent"
	InvoiceStatusPartial = "partial"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusPaid    = "paid"
)

// OutstandingStatuses are the invoice statuses eligible for matching.
var OutstandingStatuses = []string{InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusOverdue}

type Invoice struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceNumber    string    `gorm:"uniqueIndex"`
	ClientName       string    `gorm:"index"`
	Amount           float64   `gorm:"index"`
	Currency         string
	Status           string `gorm:"index"`
	DueDate          time.Time
	PaymentReference string `gorm:"index"`
	ProjectID        *uuid.UUID
	Deposit          bool
	TransactionRef   *uuid.UUID
	PaidAt           *time.Time
	CreatedAt        time.Time
}

// IsDeposit reports whether the invoice represents an upfront/deposit
// payment, either by explicit flag or by naming convention.
func (i *Invoice) IsDeposit() bool {
	if i.Deposit {
		return true
	}
	number := strings.ToLower(i.InvoiceNumber)
	return strings.Contains(number, "acompte") || strings.Contains(number, "deposit")
}
