package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger

	ping    PingHandler
	ledger  *ledgerHandlers
	matches *matchHandlers
}

func New(logger *slog.Logger, ledger ledgerUseCase, matches matchUseCase) *Server {
	logger = logger.With("component", "rest")

	return &Server{
		logger: logger,

		ping:    NewPingHandler(),
		ledger:  &ledgerHandlers{logger: logger, ledger: ledger},
		matches: &matchHandlers{logger: logger, matches: matches},
	}
}

// Router builds the HTTP routes.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(that.logRequests)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/ping", that.ping.PingHandler)

	router.Route("/api", func(r chi.Router) {
		r.Post("/games", that.ledger.SaveGame)
		r.Get("/games/{id}", that.ledger.GetGame)
		r.Get("/stats", that.ledger.GetStats)

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", that.matches.CreateMatch)
			r.Get("/{id}", that.matches.GetMatch)
			r.Post("/{id}/join", that.matches.JoinMatch)
			r.Post("/{id}/turns", that.matches.MakeTurn)
			r.Post("/{id}/record", that.matches.RecordMatch)
		})
	})

	return router
}

// Start - serves HTTP until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	return serve(ctx, srv)
}

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

func (that *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		that.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
