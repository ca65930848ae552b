package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/config"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/repository"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-ledger/transport/rest"
	"github.com/rocketscienceinc/tictactoe-ledger/transport/websocket"
)

var ErrRedisHostNotFound = errors.New("redis host is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	if conf.Redis.Host == "" {
		return ErrRedisHostNotFound
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	postgresStorage, err := storage.NewPostgresStorage(ctx, conf.Postgres.GetDSN(), storage.PoolOptions{
		MaxOpenConns:    conf.Postgres.MaxOpenConns,
		MaxIdleConns:    conf.Postgres.MaxIdleConns,
		ConnMaxLifetime: conf.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("could not connect to postgres storage: %w", err)
	}

	defer func() {
		if err = postgresStorage.Close(); err != nil {
			log.Error("could not close postgres storage", "error", err)
		}
	}()

	if err = postgresStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init postgres storage: %w", err)
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	limits := usecase.BoardLimits{MinSize: conf.Board.MinSize, MaxSize: conf.Board.MaxSize}

	ledgerRepo := repository.NewLedgerRepository(postgresStorage.Connection)
	matchRepo := repository.NewMatchRepository(redisStorage.Connection, conf.Redis.MatchTTL)
	ledgerUseCase := usecase.NewLedgerUseCase(logger, ledgerRepo, limits)
	gameManager := usecase.NewGameManager(logger, matchRepo, ledgerUseCase, limits)

	httpServer := rest.New(logger, ledgerUseCase, gameManager)
	wsServer := websocket.New(logger, gameManager, ledgerUseCase)

	// storages close only after both servers have drained
	return runServers(ctx, cancel, log,
		server{name: "HTTP", port: conf.HTTPPort, start: httpServer.Start},
		server{name: "WebSocket", port: conf.SocketPort, start: wsServer.Start},
	)
}

type server struct {
	name  string
	port  string
	start func(ctx context.Context, port string) error
}

// runServers starts every server and blocks until all of them have returned. The first
// failure cancels ctx so the others shut down too.
func runServers(ctx context.Context, cancel context.CancelFunc, log *slog.Logger, servers ...server) error {
	errCh := make(chan error, len(servers))

	var wg sync.WaitGroup
	for _, srv := range servers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			log.Info("Starting "+srv.name+" server", "port", srv.port)
			if err := srv.start(ctx, srv.port); err != nil {
				log.Error(srv.name+" server error", "error", err)
				errCh <- fmt.Errorf("%s server error: %w", srv.name, err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Info("Application context canceled, shutting down")

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
