package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stxplay/tictactoe-client/internal/config"
	"github.com/stxplay/tictactoe-client/internal/contract"
	"github.com/stxplay/tictactoe-client/internal/repository"
	"github.com/stxplay/tictactoe-client/internal/repository/storage"
	"github.com/stxplay/tictactoe-client/internal/session"
	"github.com/stxplay/tictactoe-client/internal/stats"
	"github.com/stxplay/tictactoe-client/internal/transport/stacks"
	"github.com/stxplay/tictactoe-client/internal/usecase"
	"github.com/stxplay/tictactoe-client/internal/wallet"
	"github.com/stxplay/tictactoe-client/transport/rest"
	"github.com/stxplay/tictactoe-client/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameContract := contract.New(conf.Stacks.ContractAddress, conf.Stacks.ContractName)
	caller := stacks.New(logger, conf.Stacks.CoreAPIURL, conf.Stacks.ContractAddress)

	gameRepo := repository.NewGameRepository(caller, gameContract)
	cachedRepo := repository.NewCachedGameRepository(logger, gameRepo, redisStorage.Connection, conf.Redis.CacheTTL())

	userSession := session.New()
	approver := wallet.Resolve(logger, conf.Wallet.BridgeURL)

	txUseCase := usecase.NewTxUseCase(logger, gameContract, userSession, approver)
	aggregator := stats.NewAggregator(logger, cachedRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		handlers := rest.NewHandlers(logger, cachedRepo, aggregator, txUseCase, userSession)
		if httpErr := rest.Start(conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, cachedRepo)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
