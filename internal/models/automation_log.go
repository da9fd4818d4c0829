package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AutomationLogEntry records one execution of an automation rule against an
// entity. The (RuleName, EntityID) pair is the dedup key: a rule that already
// fired for an entity must never fire again.
type AutomationLogEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RuleName   string    `gorm:"uniqueIndex:idx_rule_entity"`
	EntityType string
	EntityID   string `gorm:"uniqueIndex:idx_rule_entity"`
	Status     string
	Payload    datatypes.JSON
	CreatedAt  time.Time
}
