package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

// MakeTurn places mark at (row, col) of the match board and advances the match:
// the turn passes to the opponent, or the match finishes on a win or a draw.
// The match is left untouched when the turn is rejected.
func MakeTurn(match *entity.Match, mark entity.Mark, row, col int) error {
	if err := match.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateMove(match, mark, row, col); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	board, err := PlayMove(match.Board, row, col, mark)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	match.Board = board
	updateMatchStatus(match, mark)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(match *entity.Match, mark entity.Mark, row, col int) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidArgument, mark)
	}

	if !match.Board.InBounds(row, col) {
		return fmt.Errorf("%w: cell (%d, %d) is outside the board", apperror.ErrInvalidArgument, row, col)
	}

	if match.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if match.Board.At(row, col) != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateMatchStatus - checks the match status after a move.
func updateMatchStatus(match *entity.Match, mark entity.Mark) {
	if winner := GetWinner(match.Board); winner != entity.EmptyCell {
		match.Winner = winner
		match.Status = entity.StatusFinished
		return
	}

	if IsDraw(match.Board) {
		match.Winner = entity.EmptyCell
		match.Status = entity.StatusFinished
		return
	}

	match.Turn = toggleMark(mark)
}

func toggleMark(current entity.Mark) entity.Mark {
	return current.Opponent()
}
