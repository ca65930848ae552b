package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

type LedgerUseCase interface {
	SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error)
	GetStats(ctx context.Context) ([]entity.PlayerStats, error)
	GetGame(ctx context.Context, id int64) (*entity.Game, error)
}

type ledgerRepo interface {
	SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error)
	GetStats(ctx context.Context) ([]entity.PlayerStats, error)
	GetGame(ctx context.Context, id int64) (*entity.Game, error)
}

// BoardLimits bounds the board sizes accepted at the service boundary.
type BoardLimits struct {
	MinSize int
	MaxSize int
}

func (that BoardLimits) Check(size int) error {
	if size < that.MinSize || size > that.MaxSize {
		return fmt.Errorf("%w: board size %d must be between %d and %d",
			apperror.ErrInvalidArgument, size, that.MinSize, that.MaxSize)
	}

	return nil
}

type ledgerUseCase struct {
	logger *slog.Logger
	repo   ledgerRepo
	limits BoardLimits
}

func NewLedgerUseCase(logger *slog.Logger, repo ledgerRepo, limits BoardLimits) LedgerUseCase {
	return &ledgerUseCase{
		logger: logger.With("component", "ledger"),
		repo:   repo,
		limits: limits,
	}
}

func (that *ledgerUseCase) SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error) {
	log := that.logger.With("method", "SaveGame")

	params = params.Normalize()

	if err := that.limits.Check(params.BoardSize); err != nil {
		return 0, err
	}

	if err := params.Validate(); err != nil {
		return 0, err
	}

	gameID, err := that.repo.SaveGame(ctx, params)
	if err != nil {
		log.Error("failed to save game", "error", err)
		return 0, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info("game saved", "game_id", gameID, "status", params.Status, "board_size", params.BoardSize)

	return gameID, nil
}

func (that *ledgerUseCase) GetStats(ctx context.Context) ([]entity.PlayerStats, error) {
	stats, err := that.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func (that *ledgerUseCase) GetGame(ctx context.Context, id int64) (*entity.Game, error) {
	game, err := that.repo.GetGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}
