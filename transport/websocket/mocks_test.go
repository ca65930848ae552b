package websocket

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/stretchr/testify/mock"
)

type mockMatches struct {
	mock.Mock
}

func (that *mockMatches) CreateMatch(ctx context.Context, size int, playerName string) (*entity.Match, error) {
	args := that.Called(ctx, size, playerName)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (that *mockMatches) JoinMatch(ctx context.Context, matchID, playerName string) (*entity.Match, error) {
	args := that.Called(ctx, matchID, playerName)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (that *mockMatches) MakeTurn(ctx context.Context, matchID, playerName string, row, col int) (*entity.Match, error) {
	args := that.Called(ctx, matchID, playerName, row, col)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

type mockStats struct {
	mock.Mock
}

func (that *mockStats) GetStats(ctx context.Context) ([]entity.PlayerStats, error) {
	args := that.Called(ctx)
	stats, _ := args.Get(0).([]entity.PlayerStats)
	return stats, args.Error(1)
}
