// Package ledger holds per-participant net balances and checks that a
// ledger is closed (sums to zero) before it is settled.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	// ErrBalanceMismatch is matched by every *MismatchError.
	ErrBalanceMismatch = errors.New("ledger does not balance")

	// ErrDuplicateParticipant is returned when one participant appears twice.
	ErrDuplicateParticipant = errors.New("duplicate participant in ledger")

	// ErrAmountOutOfRange is returned for math.MinInt64, which has no
	// positive counterpart and so cannot be settled.
	ErrAmountOutOfRange = errors.New("balance amount out of range")
)

// Balance is one participant's net position in minor currency units.
// Positive means the participant owes money, negative means they are owed.
type Balance struct {
	ParticipantID string
	Amount        int64
}

// MismatchError reports a ledger whose balances do not sum to zero.
type MismatchError struct {
	// ActualSum is the amount by which the ledger is off.
	ActualSum int64

	// Overflow is set when the true sum lies outside int64. ActualSum is
	// then saturated at math.MaxInt64 or math.MinInt64.
	Overflow bool
}

func (e *MismatchError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("ledger does not balance: off by more than %d", e.ActualSum)
	}
	return fmt.Sprintf("ledger does not balance: off by %d", e.ActualSum)
}

// Is lets errors.Is(err, ErrBalanceMismatch) match any mismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrBalanceMismatch
}

// Sum returns the sum of all balances. exact is false when the true sum
// does not fit in int64; the result is then saturated in the sum's direction.
func Sum(balances []Balance) (sum int64, exact bool) {
	for _, b := range balances {
		next := sum + b.Amount
		if (b.Amount > 0 && next < sum) || (b.Amount < 0 && next > sum) {
			return bigSum(balances)
		}
		sum = next
	}
	return sum, true
}

// bigSum is the slow path for ledgers whose running total leaves int64.
// The final sum may still fit, e.g. MaxInt64, 1, MinInt64.
func bigSum(balances []Balance) (int64, bool) {
	total := new(big.Int)
	for _, b := range balances {
		total.Add(total, big.NewInt(b.Amount))
	}
	switch {
	case total.IsInt64():
		return total.Int64(), true
	case total.Sign() > 0:
		return math.MaxInt64, false
	default:
		return math.MinInt64, false
	}
}

// Validate succeeds iff the balances sum to exactly zero. An empty ledger is
// valid. On failure it returns a *MismatchError carrying the actual sum.
func Validate(balances []Balance) error {
	sum, exact := Sum(balances)
	if !exact || sum != 0 {
		return &MismatchError{ActualSum: sum, Overflow: !exact}
	}
	return nil
}

// CheckUnique reports ErrDuplicateParticipant if any participant id repeats.
func CheckUnique(balances []Balance) error {
	seen := make(map[string]struct{}, len(balances))
	for _, b := range balances {
		if _, ok := seen[b.ParticipantID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, b.ParticipantID)
		}
		seen[b.ParticipantID] = struct{}{}
	}
	return nil
}

// CheckBounds reports ErrAmountOutOfRange for any math.MinInt64 amount.
func CheckBounds(balances []Balance) error {
	for _, b := range balances {
		if b.Amount == math.MinInt64 {
			return fmt.Errorf("%w: %s", ErrAmountOutOfRange, b.ParticipantID)
		}
	}
	return nil
}
