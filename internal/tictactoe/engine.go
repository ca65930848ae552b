package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

// EmptyBoard returns a size×size board with every cell empty.
func EmptyBoard(size int) (entity.Board, error) {
	board, err := entity.NewBoard(size)
	if err != nil {
		return entity.Board{}, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// WinningLines returns the 2*size+2 lines of a size×size board in a fixed order:
// rows top to bottom, columns left to right, main diagonal, anti-diagonal.
func WinningLines(size int) []entity.Line {
	if size < 1 {
		return nil
	}

	lines := make([]entity.Line, 0, 2*size+2)

	for r := 0; r < size; r++ {
		line := make(entity.Line, size)
		for c := 0; c < size; c++ {
			line[c] = entity.Cell{Row: r, Col: c}
		}
		lines = append(lines, line)
	}

	for c := 0; c < size; c++ {
		line := make(entity.Line, size)
		for r := 0; r < size; r++ {
			line[r] = entity.Cell{Row: r, Col: c}
		}
		lines = append(lines, line)
	}

	diagonal := make(entity.Line, size)
	antiDiagonal := make(entity.Line, size)
	for i := 0; i < size; i++ {
		diagonal[i] = entity.Cell{Row: i, Col: i}
		antiDiagonal[i] = entity.Cell{Row: i, Col: size - 1 - i}
	}

	return append(lines, diagonal, antiDiagonal)
}

// PlayMove returns a copy of board with (row, col) set to mark.
// The input board is never modified and occupancy is not checked.
func PlayMove(board entity.Board, row, col int, mark entity.Mark) (entity.Board, error) {
	next, err := board.Place(row, col, mark)
	if err != nil {
		return entity.Board{}, fmt.Errorf("failed to play move: %w", err)
	}

	return next, nil
}

// GetWinner returns the mark owning the first fully marked line in WinningLines
// order, or entity.EmptyCell when there is none.
func GetWinner(board entity.Board) entity.Mark {
	for _, line := range WinningLines(board.Size()) {
		if mark := lineOwner(board, line); mark != entity.EmptyCell {
			return mark
		}
	}

	return entity.EmptyCell
}

// IsDraw reports whether the board is full and nobody has won.
func IsDraw(board entity.Board) bool {
	return GetWinner(board) == entity.EmptyCell && board.IsFull()
}

func lineOwner(board entity.Board, line entity.Line) entity.Mark {
	first := board.At(line[0].Row, line[0].Col)
	if first == entity.EmptyCell {
		return entity.EmptyCell
	}

	for _, cell := range line[1:] {
		if board.At(cell.Row, cell.Col) != first {
			return entity.EmptyCell
		}
	}

	return first
}
