package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxMessageBytes = 1 << 16
)

type matchUseCase interface {
	CreateMatch(ctx context.Context, size int, playerName string) (*entity.Match, error)
	JoinMatch(ctx context.Context, matchID, playerName string) (*entity.Match, error)
	MakeTurn(ctx context.Context, matchID, playerName string, row, col int) (*entity.Match, error)
}

type statsReader interface {
	GetStats(ctx context.Context) ([]entity.PlayerStats, error)
}

type handlerFunc func(ctx context.Context, msg *Message, conn *client) error

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (that *client) writeJSON(v any) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	return that.conn.WriteJSON(v)
}

// close tells the peer the server is going away and drops the connection.
func (that *client) close() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = that.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
	_ = that.conn.Close()
}

type Server struct {
	logger   *slog.Logger
	matches  matchUseCase
	stats    statsReader
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	// sessions counts upgraded connections still being served.
	sessions sync.WaitGroup
}

func New(logger *slog.Logger, matches matchUseCase, stats statsReader) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		matches: matches,
		stats:   stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers:    make(map[string]handlerFunc),
		connections: make(map[string]*client),
	}

	server.handlers[actionMatchNew] = server.handleNewMatch
	server.handlers[actionMatchJoin] = server.handleJoinMatch
	server.handlers[actionMatchTurn] = server.handleMatchTurn
	server.handlers[actionStats] = server.handleStats

	return server
}

// Router serves the upgrade endpoint at /ws.
func (that *Server) Router(ctx context.Context) http.Handler {
	router := chi.NewRouter()
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return router
}

// Start - starts WebSocket server and stops it when ctx is canceled. It returns once
// every open connection has been closed.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

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

	that.sessions.Wait()

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	// counted while the request is still active so Shutdown orders before Wait
	that.sessions.Add(1)
	defer that.sessions.Done()

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	defer func() {
		that.handleDisconnect(c)
		_ = conn.Close()
	}()

	stop := context.AfterFunc(ctx, c.close)
	defer stop()

	conn.SetReadLimit(maxMessageBytes)

	log.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	if err = that.handleMessages(ctx, c); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = that.sendError(c, "", "malformed message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err = that.sendError(c, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// register remembers c as the connection of player; a newer connection replaces an older one.
func (that *Server) register(player string, c *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[player] = c
}

func (that *Server) handleDisconnect(c *client) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for player, conn := range that.connections {
		if conn == c {
			delete(that.connections, player)
			that.logger.Info("player disconnected", "player", player)
		}
	}
}

func (that *Server) connectionOf(player string) (*client, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	c, ok := that.connections[player]
	return c, ok
}
