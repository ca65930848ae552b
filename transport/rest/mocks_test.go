package rest

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedger) GetStats(ctx context.Context) ([]entity.PlayerStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]entity.PlayerStats)
	return stats, args.Error(1)
}

func (m *mockLedger) GetGame(ctx context.Context, id int64) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

type mockMatches struct {
	mock.Mock
}

func (m *mockMatches) CreateMatch(ctx context.Context, size int, playerName string) (*entity.Match, error) {
	args := m.Called(ctx, size, playerName)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (m *mockMatches) JoinMatch(ctx context.Context, matchID, playerName string) (*entity.Match, error) {
	args := m.Called(ctx, matchID, playerName)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (m *mockMatches) MakeTurn(ctx context.Context, matchID, playerName string, row, col int) (*entity.Match, error) {
	args := m.Called(ctx, matchID, playerName, row, col)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (m *mockMatches) RecordMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	args := m.Called(ctx, matchID)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (m *mockMatches) GetMatch(ctx context.Context, matchID string) (*entity.Match, error) {
	args := m.Called(ctx, matchID)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}
