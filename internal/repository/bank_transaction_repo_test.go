package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"bank-reconciliation-engine/internal/models"
)

func TestNewFromIncoming_StartsUnmatched(t *testing.T) {
	in := IncomingTransaction{
		ExternalID: "prov-tx-1",
		Amount:     -1250.00,
		Currency:   "CHF",
		Reference:  "RF18539007547034",
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		State:      "pending",
		RawPayload: []byte(`{"id":"prov-tx-1"}`),
	}

	tx := newFromIncoming(in)

	assert.Equal(t, models.ReconStatusUnmatched, tx.ReconciliationStatus)
	assert.Equal(t, "prov-tx-1", tx.ExternalID)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Nil(t, tx.MatchedInvoiceID)
}

func TestMergeIncoming_PreservesReconciliationFields(t *testing.T) {
	invoiceID := uuid.New()
	existing := &models.BankTransaction{
		ID:                   uuid.New(),
		ExternalID:           "prov-tx-1",
		Amount:               -1250.00,
		State:                "pending",
		ReconciliationStatus: models.ReconStatusAutoMatched,
		MatchedInvoiceID:     &invoiceID,
		ConfidenceScore:      90,
		MatchMethod:          models.MatchMethodAuto,
	}

	mergeIncoming(existing, IncomingTransaction{
		ExternalID: "prov-tx-1",
		State:      models.StateCompleted,
		RawPayload: []byte(`{"state":"completed"}`),
	})

	// provider fields refreshed
	assert.Equal(t, models.StateCompleted, existing.State)
	assert.NotEmpty(t, existing.RawPayload)

	// a re-delivered event can never regress a matched transaction
	assert.Equal(t, models.ReconStatusAutoMatched, existing.ReconciliationStatus)
	assert.Equal(t, &invoiceID, existing.MatchedInvoiceID)
	assert.Equal(t, float64(90), existing.ConfidenceScore)
	assert.Equal(t, models.MatchMethodAuto, existing.MatchMethod)
}

func TestMergeIncoming_IgnoresZeroValues(t *testing.T) {
	when := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	existing := &models.BankTransaction{
		Amount:          -1250.00,
		Reference:       "RF18539007547034",
		Description:     "Acme SA",
		TransactionDate: when,
		State:           "pending",
	}

	mergeIncoming(existing, IncomingTransaction{ExternalID: "prov-tx-1"})

	assert.Equal(t, -1250.00, existing.Amount)
	assert.Equal(t, "RF18539007547034", existing.Reference)
	assert.Equal(t, "Acme SA", existing.Description)
	assert.Equal(t, when, existing.TransactionDate)
	assert.Equal(t, "pending", existing.State)
}
