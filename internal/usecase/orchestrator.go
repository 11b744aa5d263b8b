package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/google/uuid"

	"github.com/stxplay/tictactoe-client/internal/apperror"
	"github.com/stxplay/tictactoe-client/internal/contract"
	"github.com/stxplay/tictactoe-client/internal/entity"
	"github.com/stxplay/tictactoe-client/internal/staging"
	"github.com/stxplay/tictactoe-client/internal/wallet"
)

// TxUseCase sequences the three state-changing contract calls through their
// wallet-approval lifecycle. A returned Submission means broadcast, never
// confirmed. No attempt is retried: a failure is terminal and the caller
// re-invokes from a fresh snapshot.
type TxUseCase interface {
	CreateGame(ctx context.Context, betAmount *big.Int, moveIndex int, move entity.Move) (*Submission, error)
	JoinGame(ctx context.Context, gameID uint64, moveIndex int, move entity.Move) (*Submission, error)
	PlayMove(ctx context.Context, gameID uint64, moveIndex int, move entity.Move) (*Submission, error)
}

// Submission identifies one broadcast attempt.
type Submission struct {
	AttemptID string `json:"attempt_id"`
	TxID      string `json:"txid"`
}

type sessionReader interface {
	Identity() (string, bool)
}

type approver interface {
	RequestApproval(ctx context.Context, call contract.Call) (*wallet.Approval, error)
}

type txUseCase struct {
	logger   *slog.Logger
	contract contract.Contract
	session  sessionReader
	wallet   approver
}

func NewTxUseCase(logger *slog.Logger, c contract.Contract, session sessionReader, wallet approver) TxUseCase {
	return &txUseCase{
		logger:   logger.With("component", "tx-usecase"),
		contract: c,
		session:  session,
		wallet:   wallet,
	}
}

func (that *txUseCase) CreateGame(ctx context.Context, betAmount *big.Int, moveIndex int, move entity.Move) (*Submission, error) {
	if err := that.checkMove(moveIndex, move); err != nil {
		return nil, err
	}

	if betAmount == nil || betAmount.Sign() <= 0 {
		return nil, apperror.ErrZeroBet
	}

	return that.submit(ctx, that.contract.CreateGame(betAmount, uint(moveIndex), move))
}

func (that *txUseCase) JoinGame(ctx context.Context, gameID uint64, moveIndex int, move entity.Move) (*Submission, error) {
	if err := that.checkMove(moveIndex, move); err != nil {
		return nil, err
	}

	return that.submit(ctx, that.contract.JoinGame(gameID, uint(moveIndex), move))
}

func (that *txUseCase) PlayMove(ctx context.Context, gameID uint64, moveIndex int, move entity.Move) (*Submission, error) {
	if err := that.checkMove(moveIndex, move); err != nil {
		return nil, err
	}

	return that.submit(ctx, that.contract.Play(gameID, uint(moveIndex), move))
}

// checkMove runs the local preconditions shared by all three operations.
// Violations are user-correctable and reported before any descriptor is
// built or any network activity happens.
func (that *txUseCase) checkMove(moveIndex int, move entity.Move) error {
	if _, ok := that.session.Identity(); !ok {
		return apperror.ErrNotAuthenticated
	}

	if moveIndex == staging.NoSelection {
		return apperror.ErrNoMoveSelected
	}

	if moveIndex < 0 || moveIndex >= entity.BoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidMoveIndex, moveIndex)
	}

	if !move.IsMark() {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidMove, move)
	}

	return nil
}

func (that *txUseCase) submit(ctx context.Context, call contract.Call) (*Submission, error) {
	attemptID := uuid.NewString()
	log := that.logger.With("attempt_id", attemptID, "function", call.Function)

	approval, err := that.wallet.RequestApproval(ctx, call)
	if err != nil {
		log.Info("submission failed", "error", err)
		return nil, fmt.Errorf("failed to submit %s: %w", call.Function, err)
	}

	log.Info("transaction broadcast", "txid", approval.TxID)

	return &Submission{AttemptID: attemptID, TxID: approval.TxID}, nil
}
