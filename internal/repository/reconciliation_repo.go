package repository

import (
	"gorm.io/gorm"

	"bank-reconciliation-engine/internal/models"
)

type ReconciliationRepository struct {
	db *gorm.DB
}

func NewReconciliationRepository(db *gorm.DB) *ReconciliationRepository {
	return &ReconciliationRepository{db: db}
}

func (r *ReconciliationRepository) Create(rec *models.Reconciliation) error {
	return r.db.Create(rec).Error
}
