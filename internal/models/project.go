package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectStatusPending = "pending"
	ProjectStatusActive  = "active"
)

type Project struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string
	Status           string `gorm:"index"`
	ActivatedAt      *time.Time
	ActivationMethod string
	CreatedAt        time.Time
}
