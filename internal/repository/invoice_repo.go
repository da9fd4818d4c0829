package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bank-reconciliation-engine/internal/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// ListOutstanding returns invoices still awaiting payment.
func (r *InvoiceRepository) ListOutstanding() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("status IN ?", models.OutstandingStatuses).Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) GetByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// MarkPaid sets the invoice to paid, links the settling transaction and
// stamps the confirmation time.
func (r *InvoiceRepository) MarkPaid(id uuid.UUID, transactionID uuid.UUID, paidAt time.Time) error {
	return r.db.Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          models.InvoiceStatusPaid,
			"transaction_ref": transactionID,
			"paid_at":         paidAt,
		}).Error
}
