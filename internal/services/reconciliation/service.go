package reconciliation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/services/matching"
)

// ErrAlreadyMatched rejects a manual match against a transaction that has
// already been reconciled.
var ErrAlreadyMatched = errors.New("transaction already matched")

const maxSuggestions = 3

type Service struct {
	transactions  TransactionStore
	invoices      InvoiceStore
	projects      ProjectStore
	notifications NotificationSink
	audits        AuditWriter
}

func NewService(
	transactions TransactionStore,
	invoices InvoiceStore,
	projects ProjectStore,
	notifications NotificationSink,
	audits AuditWriter,
) *Service {
	return &Service{
		transactions:  transactions,
		invoices:      invoices,
		projects:      projects,
		notifications: notifications,
		audits:        audits,
	}
}

// Suggestion is one ranked candidate surfaced for human review.
type Suggestion struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`
	Amount        float64   `json:"amount"`
	Score         int       `json:"score"`
	Reasons       []string  `json:"reasons"`
}

type Result struct {
	Matched     bool
	Auto        bool
	Score       int
	Invoice     *models.Invoice
	Suggestions []Suggestion
}

// Reconcile ranks all outstanding invoices against the transaction and
// either applies the best match automatically or persists the candidates
// for manual review. Re-running on an already-matched transaction is a
// no-op: reconciliation may fire once from the webhook and again from
// polling and must converge to the same state.
func (s *Service) Reconcile(tx *models.BankTransaction) (*Result, error) {
	if tx.ReconciliationStatus != models.ReconStatusUnmatched {
		return &Result{
			Matched: true,
			Auto:    tx.ReconciliationStatus == models.ReconStatusAutoMatched,
			Score:   int(tx.ConfidenceScore),
		}, nil
	}

	invoices, err := s.invoices.ListOutstanding()
	if err != nil {
		return nil, fmt.Errorf("list outstanding invoices: %w", err)
	}
	if len(invoices) == 0 {
		// expected steady state, not an error
		return &Result{Matched: false}, nil
	}

	type candidate struct {
		invoice models.Invoice
		score   int
		reasons []string
	}
	var candidates []candidate
	for _, inv := range invoices {
		score, reasons := matching.Score(tx, &inv)
		if score == 0 {
			continue
		}
		candidates = append(candidates, candidate{invoice: inv, score: score, reasons: reasons})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var suggestions []Suggestion
	for i := 0; i < len(candidates) && i < maxSuggestions; i++ {
		c := candidates[i]
		suggestions = append(suggestions, Suggestion{
			InvoiceID:     c.invoice.ID,
			InvoiceNumber: c.invoice.InvoiceNumber,
			ClientName:    c.invoice.ClientName,
			Amount:        c.invoice.Amount,
			Score:         c.score,
			Reasons:       c.reasons,
		})
	}

	if len(candidates) == 0 {
		return &Result{Matched: false}, nil
	}

	best := candidates[0]
	if best.score >= matching.AutoApplyThreshold {
		if err := s.applyMatch(tx, &best.invoice, best.score, best.reasons, models.MatchMethodAuto); err != nil {
			return nil, err
		}
		return &Result{
			Matched:     true,
			Auto:        true,
			Score:       best.score,
			Invoice:     &best.invoice,
			Suggestions: suggestions,
		}, nil
	}

	// below threshold: persist the best score and candidates for the
	// manual-review workflow, status stays unmatched
	tx.ConfidenceScore = float64(best.score)
	if details, err := json.Marshal(suggestions); err == nil {
		tx.MatchDetails = details
	}
	if err := s.transactions.Save(tx); err != nil {
		return nil, fmt.Errorf("persist suggestions for %s: %w", tx.ExternalID, err)
	}

	return &Result{Matched: false, Score: best.score, Suggestions: suggestions}, nil
}

// ManualMatch applies an operator-chosen invoice to an unmatched
// transaction through the same apply path as automatic matching.
func (s *Service) ManualMatch(txID, invoiceID uuid.UUID) (*Result, error) {
	tx, err := s.transactions.GetByID(txID)
	if err != nil {
		return nil, fmt.Errorf("load transaction %s: %w", txID, err)
	}
	if tx.ReconciliationStatus != models.ReconStatusUnmatched {
		return nil, ErrAlreadyMatched
	}

	invoice, err := s.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}

	if err := s.applyMatch(tx, invoice, 100, []string{"manual"}, models.MatchMethodManual); err != nil {
		return nil, err
	}
	return &Result{Matched: true, Score: 100, Invoice: invoice}, nil
}

// applyMatch performs the ordered mutations of one applied match. The steps
// are not one ACID transaction; each is idempotent or conditional so a
// failure leaves the system re-runnable.
func (s *Service) applyMatch(tx *models.BankTransaction, inv *models.Invoice, score int, reasons []string, method string) error {
	now := time.Now()

	tx.ReconciliationStatus = models.ReconStatusAutoMatched
	if method == models.MatchMethodManual {
		tx.ReconciliationStatus = models.ReconStatusManualMatched
	}
	tx.MatchedInvoiceID = &inv.ID
	tx.ConfidenceScore = float64(score)
	tx.MatchMethod = method
	if details, err := json.Marshal(reasons); err == nil {
		tx.MatchDetails = details
	}
	if err := s.transactions.Save(tx); err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ExternalID, err)
	}

	if err := s.invoices.MarkPaid(inv.ID, tx.ID, now); err != nil {
		return fmt.Errorf("mark invoice %s paid: %w", inv.InvoiceNumber, err)
	}

	reasonsJSON, _ := json.Marshal(reasons)
	rec := &models.Reconciliation{
		ID:            uuid.New(),
		TransactionID: tx.ID,
		InvoiceID:     inv.ID,
		Score:         float64(score),
		Method:        method,
		Reasons:       reasonsJSON,
		CreatedAt:     now,
	}
	if err := s.audits.Create(rec); err != nil {
		return fmt.Errorf("append reconciliation record: %w", err)
	}

	s.activateProjectIfDeposit(inv, now)

	// best effort; a notification failure never rolls back the match
	title := fmt.Sprintf("Payment confirmed: invoice %s", inv.InvoiceNumber)
	desc := fmt.Sprintf("%.2f %s matched to %s (%s)", inv.Amount, inv.Currency, inv.ClientName, method)
	if err := s.notifications.CreateAlert(title, desc); err != nil {
		log.Printf("reconciliation: payment-confirmed alert for invoice %s failed: %v", inv.InvoiceNumber, err)
	}

	return nil
}

// activateProjectIfDeposit activates the invoice's linked project when a
// deposit invoice is paid. Already-active projects and non-deposit invoices
// are a no-op, never an error, so the apply path stays idempotent.
func (s *Service) activateProjectIfDeposit(inv *models.Invoice, now time.Time) {
	if !inv.IsDeposit() || inv.ProjectID == nil {
		return
	}

	project, err := s.projects.Get(*inv.ProjectID)
	if err != nil {
		log.Printf("reconciliation: load project %s: %v", inv.ProjectID, err)
		return
	}
	if project.Status == models.ProjectStatusActive {
		return
	}

	if err := s.projects.Activate(project.ID, now, "payment-triggered"); err != nil {
		log.Printf("reconciliation: activate project %s: %v", project.ID, err)
	}
}
