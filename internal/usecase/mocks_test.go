package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/stretchr/testify/mock"
)

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) SaveGame(ctx context.Context, params entity.SaveGameParams) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerRepo) GetStats(ctx context.Context) ([]entity.PlayerStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]entity.PlayerStats)
	return stats, args.Error(1)
}

func (m *mockLedgerRepo) GetGame(ctx context.Context, id int64) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

type mockMatchRepo struct {
	mock.Mock
}

func (m *mockMatchRepo) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	return m.Called(ctx, match).Error(0)
}

func (m *mockMatchRepo) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	args := m.Called(ctx, id)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

// Update applies mutate to the match the expectation returns.
func (m *mockMatchRepo) Update(
	ctx context.Context,
	id string,
	mutate func(match *entity.Match) error,
) (*entity.Match, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	match, _ := args.Get(0).(*entity.Match)
	if err := mutate(match); err != nil {
		return nil, err
	}

	return match, nil
}

func (m *mockMatchRepo) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
