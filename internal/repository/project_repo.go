package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bank-reconciliation-engine/internal/models"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Get(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Activate(id uuid.UUID, activatedAt time.Time, method string) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            models.ProjectStatusActive,
			"activated_at":      activatedAt,
			"activation_method": method,
		}).Error
}
