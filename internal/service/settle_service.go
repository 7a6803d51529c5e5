package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/internal/calculator"
	"github.com/mmynk/potsettle/internal/ledger"
	"github.com/mmynk/potsettle/internal/metrics"
	"github.com/mmynk/potsettle/internal/money"
	"github.com/mmynk/potsettle/pkg/api"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

// sourceRPC labels metrics for ad-hoc ledgers settled over RPC.
const sourceRPC = "rpc"

// SettleService implements the stateless Connect SettleService: it validates
// and settles ledgers supplied by the caller and stores nothing.
type SettleService struct {
	apiconnect.UnimplementedSettleServiceHandler
	metrics *metrics.Recorder
}

// NewSettleService creates a SettleService. rec may be nil.
func NewSettleService(rec *metrics.Recorder) *SettleService {
	return &SettleService{metrics: rec}
}

func toLedger(balances []*api.Balance) []ledger.Balance {
	entries := make([]ledger.Balance, 0, len(balances))
	for _, b := range balances {
		if b == nil {
			continue
		}
		entries = append(entries, ledger.Balance{ParticipantID: b.ParticipantId, Amount: b.Amount})
	}
	return entries
}

// checkBalances rejects entries without a participant or with an amount
// outside ±money.MaxBalance.
func checkBalances(entries []ledger.Balance) error {
	for _, e := range entries {
		if e.ParticipantID == "" {
			return connect.NewError(connect.CodeInvalidArgument, errors.New("participant_id required"))
		}
		if e.Amount > money.MaxBalance || e.Amount < -money.MaxBalance {
			return connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("balance for %s must be within ±%s", e.ParticipantID, money.Format(money.MaxBalance)))
		}
	}
	return nil
}

// Validate reports whether a ledger balances and, if not, by how much.
func (s *SettleService) Validate(ctx context.Context, req *connect.Request[api.ValidateRequest]) (*connect.Response[api.ValidateResponse], error) {
	entries := toLedger(req.Msg.Balances)
	slog.Debug("Validate request received", "participants", len(entries))

	if err := checkBalances(entries); err != nil {
		return nil, err
	}

	if err := ledger.Validate(entries); err != nil {
		var mismatch *ledger.MismatchError
		if errors.As(err, &mismatch) {
			return connect.NewResponse(&api.ValidateResponse{
				ActualSum: mismatch.ActualSum,
				Overflow:  mismatch.Overflow,
			}), nil
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ValidateResponse{Balanced: true}), nil
}

// Settle computes the payment plan for a caller-supplied ledger.
func (s *SettleService) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	entries := toLedger(req.Msg.Balances)
	slog.Info("Settle request received", "participants", len(entries))

	if err := checkBalances(entries); err != nil {
		s.metrics.Invalid(sourceRPC)
		return nil, err
	}

	// Validate up front so a mismatch surfaces as the recoverable error.
	if err := ledger.Validate(entries); err != nil {
		var mismatch *ledger.MismatchError
		if errors.As(err, &mismatch) {
			slog.Warn("Settle rejected unbalanced ledger", "actual_sum", mismatch.ActualSum)
			s.metrics.Mismatch(sourceRPC, mismatch.ActualSum)
			return nil, mismatchError(connect.CodeInvalidArgument, mismatch)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	plan, err := calculator.Settle(entries)
	if err != nil {
		slog.Warn("Settle rejected ledger", "error", err)
		s.metrics.Invalid(sourceRPC)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	payments := make([]*api.Payment, len(plan))
	for i, p := range plan {
		payments[i] = &api.Payment{
			From:          p.From,
			To:            p.To,
			Amount:        p.Amount,
			AmountDisplay: money.Format(p.Amount),
		}
	}

	s.metrics.Settled(sourceRPC, nonZero(entries), len(plan))
	slog.Info("Settle successful", "participants", len(entries), "payments", len(plan))

	return connect.NewResponse(&api.SettleResponse{Payments: payments}), nil
}

func nonZero(entries []ledger.Balance) int {
	n := 0
	for _, e := range entries {
		if e.Amount != 0 {
			n++
		}
	}
	return n
}
