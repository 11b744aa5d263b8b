package apperror

import "errors"

var (
	ErrNotAuthenticated  = errors.New("no authenticated wallet identity")
	ErrInvalidMoveIndex  = errors.New("move index out of range")
	ErrInvalidMove       = errors.New("move must be X or O")
	ErrZeroBet           = errors.New("bet amount must be non-zero")
	ErrNoMoveSelected    = errors.New("no move selected")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrApprovalDeclined  = errors.New("wallet approval declined")
	ErrWalletUnavailable = errors.New("no wallet approver configured")
)
