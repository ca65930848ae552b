package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	msgMissingFields   = "Missing required fields"
	msgInvalidStatus   = `Status must be "win" or "draw"`
	msgWinnerRequired  = `Winner name is required when status is "win"`
	msgFailedSave      = "Failed to save game"
	msgFailedFetchGame = "Failed to fetch game"
)

type ledgerUseCase interface {
	SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error)
	GetStats(ctx context.Context) ([]entity.PlayerStats, error)
	GetGame(ctx context.Context, id int64) (*entity.Game, error)
}

type ledgerHandlers struct {
	logger *slog.Logger
	ledger ledgerUseCase
}

type saveGameRequest struct {
	BoardSize *int                 `json:"boardSize"`
	Status    entity.GameStatus    `json:"status"`
	Winner    string               `json:"winner"`
	Players   *entity.Participants `json:"players"`
}

type saveGameResponse struct {
	GameID int64 `json:"gameId"`
}

// check reports the first problem with the request body, or "".
func (that saveGameRequest) check() string {
	if that.BoardSize == nil || that.Status == "" || that.Players == nil ||
		that.Players.X == "" || that.Players.O == "" {
		return msgMissingFields
	}

	if !that.Status.IsValid() {
		return msgInvalidStatus
	}

	if that.Status == entity.GameStatusWin && that.Winner == "" {
		return msgWinnerRequired
	}

	return ""
}

func (that *ledgerHandlers) SaveGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SaveGame")

	var req saveGameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if problem := req.check(); problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	gameID, err := that.ledger.SaveGame(r.Context(), entity.SaveGameParams{
		BoardSize: *req.BoardSize,
		Status:    req.Status,
		Winner:    req.Winner,
		Players:   *req.Players,
	})
	if err != nil {
		log.Error("failed to save game", "error", err)
		writeAppError(w, err, msgFailedSave)
		return
	}

	writeJSON(w, http.StatusCreated, saveGameResponse{GameID: gameID})
}

// GetStats never fails the request: a read error is logged and an empty list returned.
func (that *ledgerHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetStats")

	stats, err := that.ledger.GetStats(r.Context())
	if err != nil {
		log.Error("failed to fetch stats", "error", err)
		stats = []entity.PlayerStats{}
	}

	if stats == nil {
		stats = []entity.PlayerStats{}
	}

	writeJSON(w, http.StatusOK, stats)
}

func (that *ledgerHandlers) GetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetGame")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Game id must be a positive integer")
		return
	}

	game, err := that.ledger.GetGame(r.Context(), id)
	if err != nil {
		log.Error("failed to fetch game", "game_id", id, "error", err)
		writeAppError(w, err, msgFailedFetchGame)
		return
	}

	writeJSON(w, http.StatusOK, game)
}
