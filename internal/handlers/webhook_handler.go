package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/provider"
	"bank-reconciliation-engine/internal/repository"
	"bank-reconciliation-engine/internal/services/reconciliation"
)

// SignatureHeader carries the provider's HMAC-SHA256 hex digest over the
// raw request body.
const SignatureHeader = "X-Signature"

// Event kinds delivered by the provider. Both are handled identically:
// upsert, then reconcile if the transaction completed.
const (
	EventTransactionCreated      = "transaction.created"
	EventTransactionStateChanged = "transaction.state_changed"
)

type eventEnvelope struct {
	Kind    string               `json:"kind"`
	Payload provider.Transaction `json:"payload"`
}

type transactionUpserter interface {
	Upsert(in repository.IncomingTransaction) (*models.BankTransaction, error)
}

type reconciler interface {
	Reconcile(tx *models.BankTransaction) (*reconciliation.Result, error)
}

type WebhookHandler struct {
	secret       string
	transactions transactionUpserter
	recon        reconciler
}

func NewWebhookHandler(secret string, transactions transactionUpserter, recon reconciler) *WebhookHandler {
	if secret == "" {
		log.Println("webhook: no signing secret configured, accepting unsigned events (development mode)")
	}
	return &WebhookHandler{secret: secret, transactions: transactions, recon: recon}
}

// Receive verifies the signature over the raw body, parses the envelope and
// acknowledges immediately. The provider enforces a short response window,
// so persistence and reconciliation run detached from the response path;
// the polling fallback covers any failure there.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	if h.secret != "" {
		if !VerifySignature(h.secret, body, c.GetHeader(SignatureHeader)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}
	}

	var event eventEnvelope
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if event.Kind != EventTransactionCreated && event.Kind != EventTransactionStateChanged {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event kind"})
		return
	}
	if event.Payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing transaction id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})

	go h.process(event, body)
}

func (h *WebhookHandler) process(event eventEnvelope, raw []byte) {
	p := event.Payload
	tx, err := h.transactions.Upsert(repository.IncomingTransaction{
		ExternalID:  p.ID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
		Reference:   p.Reference,
		Date:        p.ParsedDate(),
		State:       p.State,
		RawPayload:  raw,
	})
	if err != nil {
		log.Printf("webhook: upsert transaction %s: %v", p.ID, err)
		return
	}

	if tx.State != models.StateCompleted {
		return
	}
	if _, err := h.recon.Reconcile(tx); err != nil {
		log.Printf("webhook: reconcile transaction %s: %v", p.ID, err)
	}
}

// VerifySignature compares the HMAC-SHA256 hex digest of the raw body
// against the provided header value in constant time.
func VerifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
