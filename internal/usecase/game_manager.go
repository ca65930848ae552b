package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/tictactoe"
)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	Update(ctx context.Context, id string, mutate func(match *entity.Match) error) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameRecorder interface {
	SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error)
}

// GameManager runs live matches and records every finished one in the ledger.
type GameManager struct {
	logger    *slog.Logger
	matchRepo matchRepo
	recorder  gameRecorder
	limits    BoardLimits
}

func NewGameManager(logger *slog.Logger, matchRepo matchRepo, recorder gameRecorder, limits BoardLimits) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		matchRepo: matchRepo,
		recorder:  recorder,
		limits:    limits,
	}
}

// CreateMatch opens a waiting match where playerName plays X.
func (that *GameManager) CreateMatch(ctx context.Context, size int, playerName string) (*entity.Match, error) {
	playerName, err := requireName(playerName)
	if err != nil {
		return nil, err
	}

	if err = that.limits.Check(size); err != nil {
		return nil, err
	}

	board, err := tictactoe.EmptyBoard(size)
	if err != nil {
		return nil, err
	}

	match := entity.NewMatch(uuid.NewString(), board, playerName)
	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	that.logger.Info("match created", "match_id", match.ID, "board_size", size)

	return match, nil
}

// JoinMatch seats playerName as O and starts the match. Joining a match one already
// plays in returns it unchanged.
func (that *GameManager) JoinMatch(ctx context.Context, matchID, playerName string) (*entity.Match, error) {
	playerName, err := requireName(playerName)
	if err != nil {
		return nil, err
	}

	match, err := that.matchRepo.Update(ctx, matchID, func(match *entity.Match) error {
		if match.PlayerByName(playerName) != nil {
			return nil
		}

		if match.IsFinished() {
			return apperror.ErrGameFinished
		}

		if len(match.Players) == 2 {
			return fmt.Errorf("%w: match id %s", apperror.ErrMatchIsFull, match.ID)
		}

		match.Players = append(match.Players, &entity.Player{Name: playerName, Mark: entity.PlayerO})
		match.Status = entity.StatusOngoing

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join match: %w", err)
	}

	return match, nil
}

// MakeTurn plays playerName's mark at (row, col). A turn that ends the match records
// it in the ledger and removes the live match.
func (that *GameManager) MakeTurn(ctx context.Context, matchID, playerName string, row, col int) (*entity.Match, error) {
	playerName = strings.TrimSpace(playerName)

	match, err := that.matchRepo.Update(ctx, matchID, func(match *entity.Match) error {
		player := match.PlayerByName(playerName)
		if player == nil {
			return fmt.Errorf("%w: %q", apperror.ErrPlayerNotInMatch, playerName)
		}

		return tictactoe.MakeTurn(match, player.Mark, row, col)
	})
	if err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	if !match.IsFinished() {
		return match, nil
	}

	return that.recordMatch(ctx, match)
}

// RecordMatch saves a finished match whose earlier recording failed.
func (that *GameManager) RecordMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return that.recordMatch(ctx, match)
}

func (that *GameManager) GetMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// recordMatch returns the match alongside the error when the ledger rejects it,
// so callers can still show the final board.
func (that *GameManager) recordMatch(ctx context.Context, match *entity.Match) (*entity.Match, error) {
	log := that.logger.With("method", "recordMatch", "match_id", match.ID)

	if match.IsRecorded() {
		return match, nil
	}

	params, err := match.Result()
	if err != nil {
		return nil, err
	}

	gameID, err := that.recorder.SaveGame(ctx, params)
	if err != nil {
		log.Error("failed to record match", "error", err)
		return match, fmt.Errorf("failed to record match: %w", err)
	}

	match.GameID = gameID
	log.Info("match recorded", "game_id", gameID, "status", params.Status)

	that.deleteMatch(ctx, match)

	return match, nil
}

func (that *GameManager) deleteMatch(ctx context.Context, match *entity.Match) {
	log := that.logger.With("method", "deleteMatch")

	if err := that.matchRepo.DeleteByID(ctx, match.ID); err != nil {
		log.Error("failed to delete match", "match_id", match.ID, "error", err)

		// keep the ledger id so a retry does not record the match twice
		if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
			log.Error("failed to update match", "match_id", match.ID, "error", err)
		}
		return
	}

	log.Info("match deleted", "match_id", match.ID)
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: player name is required", apperror.ErrInvalidArgument)
	}

	return name, nil
}
