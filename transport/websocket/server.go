package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stxplay/tictactoe-client/internal/entity"
	"github.com/stxplay/tictactoe-client/internal/repository"
)

const (
	pollInterval = 3 * time.Second
	writeWait    = 10 * time.Second
)

type gameRepository interface {
	GetByID(ctx context.Context, id uint64) (*entity.Game, error)
}

// Server pushes fresh game snapshots to subscribed clients. A client
// connects to /ws?game=<id>; the server polls the repository and writes the
// snapshot whenever it differs from the last one sent.
type Server struct {
	logger   *slog.Logger
	games    gameRepository
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, games gameRepository) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveGame(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveGame(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveGame")

	gameID, err := strconv.ParseUint(r.URL.Query().Get("game"), 10, 64)
	if err != nil {
		http.Error(w, "game query parameter must be a non-negative integer", http.StatusBadRequest)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// drain client frames so close handshakes are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastSent []byte
	for {
		snapshot, err := that.games.GetByID(ctx, gameID)
		if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
			log.Warn("failed to fetch game", "game_id", gameID, "error", err)
		}

		if snapshot != nil {
			raw, err := json.Marshal(snapshot)
			if err == nil && string(raw) != string(lastSent) {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err = conn.WriteMessage(websocket.TextMessage, raw); err != nil {
					return
				}
				lastSent = raw
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
