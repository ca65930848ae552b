package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

const (
	msgFailedMatch  = "Failed to process match"
	msgFailedRecord = "Failed to record game"
)

type matchUseCase interface {
	CreateMatch(ctx context.Context, size int, playerName string) (*entity.Match, error)
	JoinMatch(ctx context.Context, matchID, playerName string) (*entity.Match, error)
	MakeTurn(ctx context.Context, matchID, playerName string, row, col int) (*entity.Match, error)
	RecordMatch(ctx context.Context, matchID string) (*entity.Match, error)
	GetMatch(ctx context.Context, matchID string) (*entity.Match, error)
}

type matchHandlers struct {
	logger  *slog.Logger
	matches matchUseCase
}

type createMatchRequest struct {
	BoardSize int    `json:"boardSize"`
	Player    string `json:"player"`
}

type joinMatchRequest struct {
	Player string `json:"player"`
}

type turnRequest struct {
	Player string `json:"player"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
}

func (that *matchHandlers) CreateMatch(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateMatch")

	var req createMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := that.matches.CreateMatch(r.Context(), req.BoardSize, req.Player)
	if err != nil {
		log.Error("failed to create match", "error", err)
		writeAppError(w, err, msgFailedMatch)
		return
	}

	writeJSON(w, http.StatusCreated, match)
}

func (that *matchHandlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, err, msgFailedMatch)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

func (that *matchHandlers) JoinMatch(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "JoinMatch")

	var req joinMatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := that.matches.JoinMatch(r.Context(), chi.URLParam(r, "id"), req.Player)
	if err != nil {
		log.Info("failed to join match", "error", err)
		writeAppError(w, err, msgFailedMatch)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

func (that *matchHandlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MakeTurn")

	var req turnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Player == "" || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	match, err := that.matches.MakeTurn(r.Context(), chi.URLParam(r, "id"), req.Player, *req.Row, *req.Col)
	if err != nil {
		log.Info("failed to make turn", "error", err)
		writeAppError(w, err, msgFailedRecord)
		return
	}

	writeJSON(w, http.StatusOK, match)
}

func (that *matchHandlers) RecordMatch(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "RecordMatch")

	match, err := that.matches.RecordMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to record match", "error", err)
		writeAppError(w, err, msgFailedRecord)
		return
	}

	writeJSON(w, http.StatusOK, match)
}
