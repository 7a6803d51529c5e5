package main

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/internal/calculator"
	"github.com/mmynk/potsettle/internal/ledger"
	"github.com/mmynk/potsettle/internal/service"
	"github.com/mmynk/potsettle/pkg/api"
	"github.com/mmynk/potsettle/pkg/api/apiconnect"
)

// settler turns a ledger into a payment plan. Unbalanced ledgers fail with
// an error matching ledger.ErrBalanceMismatch.
type settler interface {
	Settle(ctx context.Context, entries []ledger.Balance) ([]calculator.Payment, error)
}

// localSettler runs the calculator in process.
type localSettler struct{}

func (localSettler) Settle(_ context.Context, entries []ledger.Balance) ([]calculator.Payment, error) {
	return calculator.Settle(entries)
}

// remoteSettler calls a potsettle server's SettleService.
type remoteSettler struct {
	client apiconnect.SettleServiceClient
}

func (s remoteSettler) Settle(ctx context.Context, entries []ledger.Balance) ([]calculator.Payment, error) {
	balances := make([]*api.Balance, len(entries))
	for i, e := range entries {
		balances[i] = &api.Balance{ParticipantId: e.ParticipantID, Amount: e.Amount}
	}

	resp, err := s.client.Settle(ctx, connect.NewRequest(&api.SettleRequest{Balances: balances}))
	if err != nil {
		if sum, ok := service.ActualSum(err); ok {
			return nil, &ledger.MismatchError{ActualSum: sum}
		}
		var connectErr *connect.Error
		if errors.As(err, &connectErr) && connectErr.Code() == connect.CodeInvalidArgument {
			return nil, fmt.Errorf("%w: %s", calculator.ErrInvalidPrecondition, connectErr.Message())
		}
		return nil, fmt.Errorf("failed to settle remotely: %w", err)
	}

	plan := make([]calculator.Payment, len(resp.Msg.Payments))
	for i, p := range resp.Msg.Payments {
		plan[i] = calculator.Payment{From: p.From, To: p.To, Amount: p.Amount}
	}
	return plan, nil
}
