package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bank-reconciliation-engine/internal/models"
)

type AutomationLogRepository struct {
	db *gorm.DB
}

func NewAutomationLogRepository(db *gorm.DB) *AutomationLogRepository {
	return &AutomationLogRepository{db: db}
}

// FindEntry returns the log entry for (rule, entity), or nil when the rule
// has not fired for that entity yet.
func (r *AutomationLogRepository) FindEntry(ruleName, entityID string) (*models.AutomationLogEntry, error) {
	var entry models.AutomationLogEntry
	err := r.db.First(&entry, "rule_name = ? AND entity_id = ?", ruleName, entityID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *AutomationLogRepository) AppendEntry(ruleName, entityType, entityID, status string, payload []byte) error {
	entry := models.AutomationLogEntry{
		ID:         uuid.New(),
		RuleName:   ruleName,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     status,
		Payload:    datatypes.JSON(payload),
		CreatedAt:  time.Now(),
	}
	return r.db.Create(&entry).Error
}
