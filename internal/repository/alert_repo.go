package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bank-reconciliation-engine/internal/models"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) CreateAlert(title, description string) error {
	alert := models.Alert{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}
	return r.db.Create(&alert).Error
}
