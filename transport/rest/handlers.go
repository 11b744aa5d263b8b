package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"

	"github.com/stxplay/tictactoe-client/internal/apperror"
	"github.com/stxplay/tictactoe-client/internal/entity"
	"github.com/stxplay/tictactoe-client/internal/repository"
	"github.com/stxplay/tictactoe-client/internal/stats"
	"github.com/stxplay/tictactoe-client/internal/usecase"
)

type gameRepository interface {
	GetByID(ctx context.Context, id uint64) (*entity.Game, error)
	GetAll(ctx context.Context) ([]*entity.Game, error)
}

type statsAggregator interface {
	ForPlayer(ctx context.Context, player string) entity.PlayerStats
	ForGame(ctx context.Context, game *entity.Game) *stats.GameStats
}

type sessionWriter interface {
	SignIn(identity string)
	SignOut()
}

type Handlers struct {
	logger  *slog.Logger
	games   gameRepository
	stats   statsAggregator
	tx      usecase.TxUseCase
	session sessionWriter
}

func NewHandlers(logger *slog.Logger, games gameRepository, stats statsAggregator, tx usecase.TxUseCase, session sessionWriter) *Handlers {
	return &Handlers{
		logger:  logger.With("component", "rest"),
		games:   games,
		stats:   stats,
		tx:      tx,
		session: session,
	}
}

func (that *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := that.games.GetAll(r.Context())
	if err != nil {
		that.logger.Error("failed to list games", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, games)
}

func (that *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	game, err := that.games.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		that.logger.Error("failed to get game", "game_id", id, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Handlers) GameStats(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	game, err := that.games.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, that.stats.ForGame(r.Context(), game))
}

func (that *Handlers) PlayerStats(w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("principal")
	writeJSON(w, http.StatusOK, that.stats.ForPlayer(r.Context(), player))
}

type moveRequest struct {
	BetAmount *big.Int    `json:"bet_amount,omitempty"`
	MoveIndex int         `json:"move_index"`
	Move      entity.Move `json:"move"`
}

func (that *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	submission, err := that.tx.CreateGame(r.Context(), req.BetAmount, req.MoveIndex, req.Move)
	if err != nil {
		writeError(w, submissionStatus(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, submission)
}

func (that *Handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	submission, err := that.tx.JoinGame(r.Context(), id, req.MoveIndex, req.Move)
	if err != nil {
		writeError(w, submissionStatus(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, submission)
}

func (that *Handlers) PlayMove(w http.ResponseWriter, r *http.Request) {
	id, ok := gameID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	submission, err := that.tx.PlayMove(r.Context(), id, req.MoveIndex, req.Move)
	if err != nil {
		writeError(w, submissionStatus(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, submission)
}

type sessionRequest struct {
	Principal string `json:"principal"`
}

// SignIn records the identity the external auth flow produced. The gateway
// trusts its caller here: wallet authentication itself happens outside this
// service.
func (that *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Principal == "" {
		writeError(w, http.StatusBadRequest, errors.New("principal is required"))
		return
	}

	that.session.SignIn(req.Principal)
	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) SignOut(w http.ResponseWriter, _ *http.Request) {
	that.session.SignOut()
	w.WriteHeader(http.StatusNoContent)
}

func gameID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("game id must be a non-negative integer"))
		return 0, false
	}

	return id, true
}

var validationErrors = []error{
	apperror.ErrInvalidMoveIndex,
	apperror.ErrInvalidMove,
	apperror.ErrZeroBet,
	apperror.ErrNoMoveSelected,
}

// submissionStatus maps orchestrator failures onto response codes:
// validation problems are the caller's to fix, everything else is an
// upstream failure.
func submissionStatus(err error) int {
	if errors.Is(err, apperror.ErrNotAuthenticated) {
		return http.StatusUnauthorized
	}

	for _, validation := range validationErrors {
		if errors.Is(err, validation) {
			return http.StatusUnprocessableEntity
		}
	}

	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
