// Package wallet is the seam to the user's wallet. Approving and
// broadcasting a state-changing call is an out-of-band, user-mediated step:
// this package only defines the capability and the concrete bindings the
// application can resolve at startup.
package wallet

import (
	"context"
	"log/slog"

	"github.com/stxplay/tictactoe-client/internal/apperror"
	"github.com/stxplay/tictactoe-client/internal/contract"
)

// Approval is the outcome of a granted approval: the transaction was
// broadcast. It says nothing about ledger confirmation.
type Approval struct {
	TxID string `json:"txid"`
}

// Approver is the single fixed wallet-approval capability. RequestApproval
// blocks until the user grants or declines; an abandoned prompt never
// resolves, so the caller's ctx is the only way out. No timeout is imposed
// here.
type Approver interface {
	RequestApproval(ctx context.Context, call contract.Call) (*Approval, error)
}

// Resolve binds the concrete approver exactly once, at startup. With no
// bridge configured it returns a declining approver so every submission
// fails fast with a clear cause instead of probing per call.
func Resolve(logger *slog.Logger, bridgeURL string) Approver {
	if bridgeURL == "" {
		logger.Warn("no wallet bridge configured, submissions will be declined")
		return unavailable{}
	}

	return NewBridge(logger, bridgeURL)
}

type unavailable struct{}

func (unavailable) RequestApproval(_ context.Context, _ contract.Call) (*Approval, error) {
	return nil, apperror.ErrWalletUnavailable
}
