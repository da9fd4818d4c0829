package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MatchMethodAuto   = "auto"
	MatchMethodManual = "manual"
)

// Reconciliation is the immutable audit record of one applied match.
type Reconciliation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID `gorm:"index"`
	InvoiceID     uuid.UUID `gorm:"index"`
	Score         float64
	Method        string
	Reasons       datatypes.JSON
	CreatedAt     time.Time
}
