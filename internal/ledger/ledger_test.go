package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		wantSum  int64
		wantErr  bool
	}{
		{
			name:     "empty ledger is valid",
			balances: nil,
		},
		{
			name:     "all zero balances",
			balances: []Balance{{"A", 0}, {"B", 0}},
		},
		{
			name:     "balanced three players",
			balances: []Balance{{"A", 300}, {"B", -100}, {"C", -200}},
		},
		{
			name:     "over by ten",
			balances: []Balance{{"A", 100}, {"B", -90}},
			wantSum:  10,
			wantErr:  true,
		},
		{
			name:     "under by fifty",
			balances: []Balance{{"A", 50}, {"B", -100}},
			wantSum:  -50,
			wantErr:  true,
		},
		{
			name:     "single non-zero participant",
			balances: []Balance{{"A", 7}},
			wantSum:  7,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.balances)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBalanceMismatch)

			var mismatch *MismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.Equal(t, tt.wantSum, mismatch.ActualSum)
		})
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	balances := []Balance{{"A", 100}, {"B", -90}}
	_ = Validate(balances)
	assert.Equal(t, []Balance{{"A", 100}, {"B", -90}}, balances)
}

func TestCheckUnique(t *testing.T) {
	assert.NoError(t, CheckUnique(nil))
	assert.NoError(t, CheckUnique([]Balance{{"A", 1}, {"B", -1}}))

	err := CheckUnique([]Balance{{"A", 1}, {"B", -2}, {"A", 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateParticipant)
	assert.Contains(t, err.Error(), "A")
}

func TestSum_Overflow(t *testing.T) {
	tests := []struct {
		name      string
		balances  []Balance
		wantSum   int64
		wantExact bool
	}{
		{"fits", []Balance{{"A", math.MaxInt64 - 1}, {"B", 1}}, math.MaxInt64, true},
		{"wraps past max", []Balance{{"A", math.MaxInt64}, {"B", math.MaxInt64}, {"C", 2}}, math.MaxInt64, false},
		{"wraps past min", []Balance{{"A", math.MinInt64}, {"B", -1}}, math.MinInt64, false},
		{"running total leaves int64 but result fits", []Balance{{"A", math.MaxInt64}, {"B", 1}, {"C", math.MinInt64}}, 0, true},
		{"extremes cancel", []Balance{{"A", math.MaxInt64}, {"B", -math.MaxInt64}}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, exact := Sum(tt.balances)
			assert.Equal(t, tt.wantSum, sum)
			assert.Equal(t, tt.wantExact, exact)
		})
	}
}

func TestValidate_Overflow(t *testing.T) {
	// True sum is 2^64, which wraps to zero in int64 arithmetic.
	err := Validate([]Balance{{"A", math.MaxInt64}, {"B", math.MaxInt64}, {"C", 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBalanceMismatch)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.Overflow)
	assert.Equal(t, int64(math.MaxInt64), mismatch.ActualSum)
	assert.Contains(t, err.Error(), "more than")

	err = Validate([]Balance{{"A", math.MinInt64}, {"B", math.MinInt64}})
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.Overflow)
	assert.Equal(t, int64(math.MinInt64), mismatch.ActualSum)

	assert.NoError(t, Validate([]Balance{{"A", math.MaxInt64}, {"B", 1}, {"C", math.MinInt64}}))
}

func TestCheckBounds(t *testing.T) {
	assert.NoError(t, CheckBounds(nil))
	assert.NoError(t, CheckBounds([]Balance{{"A", math.MaxInt64}, {"B", -math.MaxInt64}}))

	err := CheckBounds([]Balance{{"A", 1}, {"B", math.MinInt64}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmountOutOfRange)
	assert.Contains(t, err.Error(), "B")
}
