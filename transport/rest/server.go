package rest

import (
	"fmt"
	"net/http"
	"time"
)

// Start wires the handlers into a mux and serves it with the usual
// timeouts.
func Start(port string, h *Handlers) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /games", h.ListGames)
	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("GET /games/{id}/stats", h.GameStats)
	mux.HandleFunc("GET /players/{principal}/stats", h.PlayerStats)
	mux.HandleFunc("POST /games", h.CreateGame)
	mux.HandleFunc("POST /games/{id}/join", h.JoinGame)
	mux.HandleFunc("POST /games/{id}/play", h.PlayMove)
	mux.HandleFunc("POST /session", h.SignIn)
	mux.HandleFunc("DELETE /session", h.SignOut)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
