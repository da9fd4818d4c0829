package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/services/reconciliation"
)

type transactionLister interface {
	List(status string, limit int) ([]models.BankTransaction, error)
}

type manualMatcher interface {
	ManualMatch(txID, invoiceID uuid.UUID) (*reconciliation.Result, error)
}

type recentSyncer interface {
	SyncRecent(ctx context.Context, hoursBack int) (synced, total int, err error)
}

// TransactionHandler backs the manual review workflow: listing
// transactions, applying operator-chosen matches and triggering an
// immediate provider sync.
type TransactionHandler struct {
	transactions transactionLister
	recon        manualMatcher
	sync         recentSyncer
}

func NewTransactionHandler(transactions transactionLister, recon manualMatcher, sync recentSyncer) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, recon: recon, sync: sync}
}

func (h *TransactionHandler) List(c *gin.Context) {
	status := c.Query("status")
	txs, err := h.transactions.List(status, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": txs})
}

func (h *TransactionHandler) ManualMatch(c *gin.Context) {
	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	var payload struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	result, err := h.recon.ManualMatch(txID, invoiceID)
	if err != nil {
		if errors.Is(err, reconciliation.ErrAlreadyMatched) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction matched", "score": result.Score})
}

func (h *TransactionHandler) TriggerSync(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	synced, total, err := h.sync.SyncRecent(ctx, 24)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": synced, "total": total})
}
