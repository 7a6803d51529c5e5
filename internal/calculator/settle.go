package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/potsettle/internal/ledger"
)

// ErrInvalidPrecondition is returned by Settle when it is handed a ledger
// that was never validated: unbalanced, with a repeated participant, or
// holding math.MinInt64.
var ErrInvalidPrecondition = errors.New("settle called with an invalid ledger")

// Payment is one transfer in a settlement plan: From pays To.
type Payment struct {
	From   string // Debtor
	To     string // Creditor
	Amount int64
}

// Settle computes the payments that bring every balance in a closed ledger
// to zero.
//
// Algorithm (greedy two-heap matching):
//   - debtors (balance > 0) go on a max-heap by amount owed
//   - creditors (balance < 0) go on a max-heap by amount owed to them
//   - pop the largest of each, transfer min(debt, credit), push back
//     whichever side still has a remainder
//
// Every step zeroes at least one participant, so the plan has at most n-1
// payments for n non-zero participants and runs in O(n log n). Equal amounts
// are matched in input order. The plan is minimal only under this heuristic.
//
// The ledger is re-validated first; an invalid ledger yields an error
// wrapping ErrInvalidPrecondition and no plan.
func Settle(balances []ledger.Balance) ([]Payment, error) {
	if err := ledger.CheckUnique(balances); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrecondition, err)
	}
	if err := ledger.CheckBounds(balances); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrecondition, err)
	}
	if err := ledger.Validate(balances); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrecondition, err)
	}

	var debtors, creditors []position
	for i, b := range balances {
		switch {
		case b.Amount > 0:
			debtors = append(debtors, position{id: b.ParticipantID, remaining: b.Amount, order: i})
		case b.Amount < 0:
			creditors = append(creditors, position{id: b.ParticipantID, remaining: -b.Amount, order: i})
		}
	}

	payments := make([]Payment, 0, max(len(debtors)+len(creditors)-1, 0))
	if len(creditors) == 0 {
		return payments, nil
	}

	debtHeap := newPositionHeap(debtors)
	creditHeap := newPositionHeap(creditors)

	for debtHeap.Len() > 0 {
		debtor := debtHeap.pop()
		creditor := creditHeap.pop()

		transfer := min(debtor.remaining, creditor.remaining)
		payments = append(payments, Payment{
			From:   debtor.id,
			To:     creditor.id,
			Amount: transfer,
		})

		debtor.remaining -= transfer
		creditor.remaining -= transfer

		if debtor.remaining > 0 {
			debtHeap.push(debtor)
		}
		if creditor.remaining > 0 {
			creditHeap.push(creditor)
		}
	}

	return payments, nil
}

// Apply replays a plan against a ledger, subtracting each payment from the
// debtor and adding it to the creditor, and returns the residual balance of
// every participant. A fully settled ledger has only zero residuals.
func Apply(balances []ledger.Balance, plan []Payment) (map[string]int64, error) {
	residual := make(map[string]int64, len(balances))
	for _, b := range balances {
		residual[b.ParticipantID] += b.Amount
	}

	for i, p := range plan {
		if p.Amount <= 0 {
			return nil, fmt.Errorf("payment %d: non-positive amount %d", i, p.Amount)
		}
		if p.From == p.To {
			return nil, fmt.Errorf("payment %d: %s pays itself", i, p.From)
		}
		if _, ok := residual[p.From]; !ok {
			return nil, fmt.Errorf("payment %d: unknown debtor %s", i, p.From)
		}
		if _, ok := residual[p.To]; !ok {
			return nil, fmt.Errorf("payment %d: unknown creditor %s", i, p.To)
		}
		residual[p.From] -= p.Amount
		residual[p.To] += p.Amount
	}

	return residual, nil
}

// Settled reports whether every residual from Apply is zero.
func Settled(residual map[string]int64) bool {
	for _, v := range residual {
		if v != 0 {
			return false
		}
	}
	return true
}
