package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a row in the notification sink, surfaced to operators.
type Alert struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string
	Description string
	CreatedAt   time.Time
}
