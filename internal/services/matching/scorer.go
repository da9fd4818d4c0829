package matching

import (
	"fmt"
	"math"
	"strings"

	"bank-reconciliation-engine/internal/models"
	"bank-reconciliation-engine/internal/similarity"
)

// Policy constants. These mirror the production tuning and must not be
// "improved": the 85-point threshold demands either a reference match plus
// amount/date corroboration, or a perfect amount plus date and name.
const (
	AutoApplyThreshold = 85
	AmountTolerance    = 0.05
)

// Score rates one (transaction, invoice) pair on a 0-100 scale from four
// weighted criteria: amount proximity (40), structured reference (35),
// date proximity (15) and fuzzy client-name match (10). Each contributing
// criterion appends a machine-readable reason tag.
func Score(tx *models.BankTransaction, inv *models.Invoice) (int, []string) {
	score := 0
	var reasons []string

	amt := math.Abs(tx.Amount)
	diff := math.Abs(amt - inv.Amount)
	switch {
	case amt == 0 || inv.Amount == 0:
		// missing amount contributes nothing
	case diff <= AmountTolerance:
		score += 40
		reasons = append(reasons, "amount_exact")
	case diff <= 1.0:
		score += 25
		reasons = append(reasons, "amount_close")
	case inv.Amount > 0 && diff/inv.Amount <= 0.02:
		score += 15
		reasons = append(reasons, "amount_near")
	}

	if referenceMatches(tx.Reference, inv.PaymentReference) {
		score += 35
		reasons = append(reasons, "ref_match")
	}

	if !tx.TransactionDate.IsZero() && !inv.DueDate.IsZero() {
		days := math.Abs(tx.TransactionDate.Sub(inv.DueDate).Hours() / 24)
		switch {
		case days <= 1:
			score += 15
			reasons = append(reasons, "date_exact")
		case days <= 3:
			score += 10
			reasons = append(reasons, "date_close")
		case days <= 7:
			score += 5
			reasons = append(reasons, "date_near")
		}
	}

	if sim := nameSimilarity(tx.Description, inv.ClientName); sim >= 60 {
		if sim >= 80 {
			score += 10
		} else {
			score += 5
		}
		reasons = append(reasons, fmt.Sprintf("fuzzy_%dpct", sim))
	}

	if score > 100 {
		score = 100
	}
	return score, reasons
}

// referenceMatches checks equality or containment either way between the
// transaction reference and the invoice's structured payment reference,
// after stripping all whitespace. Structured references are unique per
// invoice, which makes this the strongest single signal.
func referenceMatches(txRef, invRef string) bool {
	a := stripSpaces(txRef)
	b := stripSpaces(invRef)
	if a == "" || b == "" {
		return false
	}
	a = strings.ToUpper(a)
	b = strings.ToUpper(b)
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// nameSimilarity rates the transaction's free-text description against the
// invoice client name. A description that carries the full client name
// counts as a perfect match even when surrounded by other text.
func nameSimilarity(description, clientName string) int {
	desc := strings.TrimSpace(description)
	name := strings.TrimSpace(clientName)
	if desc == "" || name == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(desc), strings.ToLower(name)) {
		return 100
	}
	return similarity.Score(desc, name)
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
