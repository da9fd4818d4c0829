package reconciliation

import (
	"time"

	"github.com/google/uuid"

	"bank-reconciliation-engine/internal/models"
)

// Collaborator ports. Durable state lives behind these; the engine itself
// holds nothing mutable, which is what makes concurrent webhook/polling
// execution safe.

type TransactionStore interface {
	Save(tx *models.BankTransaction) error
	GetByID(id uuid.UUID) (*models.BankTransaction, error)
}

type InvoiceStore interface {
	ListOutstanding() ([]models.Invoice, error)
	GetByID(id uuid.UUID) (*models.Invoice, error)
	MarkPaid(id uuid.UUID, transactionID uuid.UUID, paidAt time.Time) error
}

type ProjectStore interface {
	Get(id uuid.UUID) (*models.Project, error)
	Activate(id uuid.UUID, activatedAt time.Time, method string) error
}

type NotificationSink interface {
	CreateAlert(title, description string) error
}

type AuditWriter interface {
	Create(rec *models.Reconciliation) error
}
