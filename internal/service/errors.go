package service

import (
	"errors"
	"strconv"

	"connectrpc.com/connect"

	"github.com/mmynk/potsettle/internal/ledger"
	"github.com/mmynk/potsettle/internal/storage"
)

// ActualSumHeader carries the discrepancy of an unbalanced ledger on the
// error metadata so clients can prompt for a correction without parsing
// the message.
const ActualSumHeader = "Potsettle-Actual-Sum"

// ActualSum returns the discrepancy carried by an error from Settle or
// EndGame, and false if err is not a ledger mismatch.
func ActualSum(err error) (int64, bool) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return 0, false
	}
	v := connectErr.Meta().Get(ActualSumHeader)
	if v == "" {
		return 0, false
	}
	sum, perr := strconv.ParseInt(v, 10, 64)
	if perr != nil {
		return 0, false
	}
	return sum, true
}

// mismatchError wraps a ledger mismatch with code and the actual sum header.
func mismatchError(code connect.Code, mismatch *ledger.MismatchError) *connect.Error {
	connectErr := connect.NewError(code, mismatch)
	connectErr.Meta().Set(ActualSumHeader, strconv.FormatInt(mismatch.ActualSum, 10))
	return connectErr
}

// storeError maps storage sentinels onto Connect codes.
func storeError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicatePlayer):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrGameEnded):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
