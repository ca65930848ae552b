package usecase

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type gameManagerFixture struct {
	manager   *GameManager
	matchRepo *mockMatchRepo
	ledger    *mockLedgerRepo
}

func newGameManagerFixture(t *testing.T) gameManagerFixture {
	t.Helper()

	matchRepo := &mockMatchRepo{}
	ledger := &mockLedgerRepo{}
	t.Cleanup(func() {
		matchRepo.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})

	return gameManagerFixture{
		manager:   NewGameManager(testLogger(), matchRepo, ledger, testLimits),
		matchRepo: matchRepo,
		ledger:    ledger,
	}
}

// ongoingMatch returns a 3x3 match between alice (X) and bob (O) with the given cells taken.
func ongoingMatch(t *testing.T, moves map[entity.Cell]entity.Mark) *entity.Match {
	t.Helper()

	board, err := entity.NewBoard(3)
	require.NoError(t, err)

	for cell, mark := range moves {
		board, err = board.Place(cell.Row, cell.Col, mark)
		require.NoError(t, err)
	}

	match := entity.NewMatch("m1", board, "alice")
	match.Players = append(match.Players, &entity.Player{Name: "bob", Mark: entity.PlayerO})
	match.Status = entity.StatusOngoing

	return match
}

func TestGameManager_CreateMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a waiting match with the creator as X", func(t *testing.T) {
		// Given: a match repository that stores the match
		f := newGameManagerFixture(t)
		f.matchRepo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Match")).Return(nil).Once()

		// When: alice creates a 4x4 match
		match, err := f.manager.CreateMatch(ctx, 4, " alice ")

		// Then: the match is waiting for an opponent
		require.NoError(t, err)
		assert.NotEmpty(t, match.ID)
		assert.True(t, match.IsWaiting())
		assert.Equal(t, 4, match.Board.Size())
		assert.Equal(t, entity.PlayerX, match.Turn)
		require.Len(t, match.Players, 1)
		assert.Equal(t, "alice", match.Players[0].Name)
	})

	t.Run("Rejects a board outside the limits", func(t *testing.T) {
		f := newGameManagerFixture(t)

		_, err := f.manager.CreateMatch(ctx, 2, "alice")

		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})

	t.Run("Rejects an empty player name", func(t *testing.T) {
		f := newGameManagerFixture(t)

		_, err := f.manager.CreateMatch(ctx, 3, "   ")

		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})

	t.Run("Returns error if storage fails", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		match, err := f.manager.CreateMatch(ctx, 3, "alice")

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, match)
	})
}

func TestGameManager_JoinMatch(t *testing.T) {
	ctx := context.Background()

	newWaitingMatch := func(t *testing.T) *entity.Match {
		t.Helper()

		board, err := entity.NewBoard(3)
		require.NoError(t, err)

		return entity.NewMatch("m1", board, "alice")
	}

	t.Run("Seats the second player as O and starts the match", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(newWaitingMatch(t), nil).Once()

		match, err := f.manager.JoinMatch(ctx, "m1", "bob")

		require.NoError(t, err)
		assert.True(t, match.IsOngoing())
		require.Len(t, match.Players, 2)
		assert.Equal(t, &entity.Player{Name: "bob", Mark: entity.PlayerO}, match.Players[1])
	})

	t.Run("Creator joining their own waiting match changes nothing", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(newWaitingMatch(t), nil).Once()

		match, err := f.manager.JoinMatch(ctx, "m1", "alice")

		require.NoError(t, err)
		assert.True(t, match.IsWaiting())
		assert.Len(t, match.Players, 1)
	})

	t.Run("A third player gets ErrMatchIsFull", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(ongoingMatch(t, nil), nil).Once()

		_, err := f.manager.JoinMatch(ctx, "m1", "carol")

		assert.ErrorIs(t, err, apperror.ErrMatchIsFull)
	})

	t.Run("Unknown match", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "nope").Return(nil, apperror.ErrNotFound).Once()

		_, err := f.manager.JoinMatch(ctx, "nope", "bob")

		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays the player's mark and passes the turn", func(t *testing.T) {
		// Given: an ongoing match
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(ongoingMatch(t, nil), nil).Once()

		// When: alice plays the centre
		match, err := f.manager.MakeTurn(ctx, "m1", "alice", 1, 1)

		// Then: the mark is placed and it is bob's turn
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, match.Board.At(1, 1))
		assert.Equal(t, entity.PlayerO, match.Turn)
		f.ledger.AssertNotCalled(t, "SaveGame", mock.Anything, mock.Anything)
	})

	t.Run("Rejects a player outside the match", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(ongoingMatch(t, nil), nil).Once()

		_, err := f.manager.MakeTurn(ctx, "m1", "mallory", 0, 0)

		assert.ErrorIs(t, err, apperror.ErrPlayerNotInMatch)
	})

	t.Run("Rejects playing out of turn", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(ongoingMatch(t, nil), nil).Once()

		_, err := f.manager.MakeTurn(ctx, "m1", "bob", 0, 0)

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Surfaces concurrent update conflicts", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("Update", mock.Anything, "m1").Return(nil, apperror.ErrConflict).Once()

		_, err := f.manager.MakeTurn(ctx, "m1", "alice", 0, 0)

		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("Winning turn records the game and deletes the match", func(t *testing.T) {
		// Given: alice has two in the top row
		f := newGameManagerFixture(t)
		match := ongoingMatch(t, map[entity.Cell]entity.Mark{
			{Row: 0, Col: 0}: entity.PlayerX,
			{Row: 0, Col: 1}: entity.PlayerX,
			{Row: 1, Col: 0}: entity.PlayerO,
			{Row: 1, Col: 1}: entity.PlayerO,
		})
		f.matchRepo.On("Update", mock.Anything, "m1").Return(match, nil).Once()
		f.ledger.On("SaveGame", mock.Anything, entity.SaveGameParams{
			BoardSize: 3,
			Status:    entity.GameStatusWin,
			Winner:    "alice",
			Players:   entity.Participants{X: "alice", O: "bob"},
		}).Return(int64(11), nil).Once()
		f.matchRepo.On("DeleteByID", mock.Anything, "m1").Return(nil).Once()

		// When: alice completes the row
		finished, err := f.manager.MakeTurn(ctx, "m1", "alice", 0, 2)

		// Then: the match is finished and recorded
		require.NoError(t, err)
		assert.True(t, finished.IsFinished())
		assert.Equal(t, entity.PlayerX, finished.Winner)
		assert.Equal(t, int64(11), finished.GameID)
	})

	t.Run("Drawing turn records a draw", func(t *testing.T) {
		// Given: X O X / X O O / O X _
		f := newGameManagerFixture(t)
		match := ongoingMatch(t, map[entity.Cell]entity.Mark{
			{Row: 0, Col: 0}: entity.PlayerX,
			{Row: 0, Col: 1}: entity.PlayerO,
			{Row: 0, Col: 2}: entity.PlayerX,
			{Row: 1, Col: 0}: entity.PlayerX,
			{Row: 1, Col: 1}: entity.PlayerO,
			{Row: 1, Col: 2}: entity.PlayerO,
			{Row: 2, Col: 0}: entity.PlayerO,
			{Row: 2, Col: 1}: entity.PlayerX,
		})
		f.matchRepo.On("Update", mock.Anything, "m1").Return(match, nil).Once()
		f.ledger.On("SaveGame", mock.Anything, mock.MatchedBy(func(params entity.SaveGameParams) bool {
			return params.Status == entity.GameStatusDraw && params.Winner == ""
		})).Return(int64(12), nil).Once()
		f.matchRepo.On("DeleteByID", mock.Anything, "m1").Return(nil).Once()

		// When: alice fills the last cell
		finished, err := f.manager.MakeTurn(ctx, "m1", "alice", 2, 2)

		// Then: the draw is recorded
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, finished.Winner)
		assert.Equal(t, int64(12), finished.GameID)
	})

	t.Run("Keeps the finished match when recording fails", func(t *testing.T) {
		f := newGameManagerFixture(t)
		match := ongoingMatch(t, map[entity.Cell]entity.Mark{
			{Row: 0, Col: 0}: entity.PlayerX,
			{Row: 0, Col: 1}: entity.PlayerX,
		})
		f.matchRepo.On("Update", mock.Anything, "m1").Return(match, nil).Once()
		f.ledger.On("SaveGame", mock.Anything, mock.Anything).Return(int64(0), apperror.ErrPersistence).Once()

		finished, err := f.manager.MakeTurn(ctx, "m1", "alice", 0, 2)

		require.ErrorIs(t, err, apperror.ErrPersistence)
		require.NotNil(t, finished)
		assert.True(t, finished.IsFinished())
		assert.False(t, finished.IsRecorded())
		f.matchRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}

func TestGameManager_RecordMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Records a finished match", func(t *testing.T) {
		f := newGameManagerFixture(t)
		match := ongoingMatch(t, nil)
		match.Status = entity.StatusFinished
		match.Winner = entity.PlayerO

		f.matchRepo.On("GetByID", mock.Anything, "m1").Return(match, nil).Once()
		f.ledger.On("SaveGame", mock.Anything, mock.MatchedBy(func(params entity.SaveGameParams) bool {
			return params.Winner == "bob"
		})).Return(int64(3), nil).Once()
		f.matchRepo.On("DeleteByID", mock.Anything, "m1").Return(nil).Once()

		recorded, err := f.manager.RecordMatch(ctx, "m1")

		require.NoError(t, err)
		assert.Equal(t, int64(3), recorded.GameID)
	})

	t.Run("Does not record twice", func(t *testing.T) {
		f := newGameManagerFixture(t)
		match := ongoingMatch(t, nil)
		match.Status = entity.StatusFinished
		match.GameID = 3

		f.matchRepo.On("GetByID", mock.Anything, "m1").Return(match, nil).Once()

		recorded, err := f.manager.RecordMatch(ctx, "m1")

		require.NoError(t, err)
		assert.Equal(t, int64(3), recorded.GameID)
		f.ledger.AssertNotCalled(t, "SaveGame", mock.Anything, mock.Anything)
	})

	t.Run("Rejects a match still in play", func(t *testing.T) {
		f := newGameManagerFixture(t)
		f.matchRepo.On("GetByID", mock.Anything, "m1").Return(ongoingMatch(t, nil), nil).Once()

		_, err := f.manager.RecordMatch(ctx, "m1")

		assert.ErrorIs(t, err, apperror.ErrMatchNotFinished)
	})

	t.Run("Keeps the ledger id when the match cannot be deleted", func(t *testing.T) {
		f := newGameManagerFixture(t)
		match := ongoingMatch(t, nil)
		match.Status = entity.StatusFinished

		f.matchRepo.On("GetByID", mock.Anything, "m1").Return(match, nil).Once()
		f.ledger.On("SaveGame", mock.Anything, mock.Anything).Return(int64(4), nil).Once()
		f.matchRepo.On("DeleteByID", mock.Anything, "m1").Return(errRedisDown).Once()
		f.matchRepo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(match *entity.Match) bool {
			return match.GameID == 4
		})).Return(nil).Once()

		recorded, err := f.manager.RecordMatch(ctx, "m1")

		require.NoError(t, err)
		assert.True(t, recorded.IsRecorded())
	})
}

func TestGameManager_GetMatch(t *testing.T) {
	f := newGameManagerFixture(t)
	f.matchRepo.On("GetByID", mock.Anything, "m1").Return(nil, apperror.ErrNotFound).Once()

	match, err := f.manager.GetMatch(context.Background(), "m1")

	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Nil(t, match)
}
