package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
)

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

// Mark is the content of a board cell.
type Mark string

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) String() string {
	if that == EmptyCell {
		return " "
	}
	return string(that)
}

// Cell is a (row, column) coordinate on a board.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Line is an ordered run of cells that wins the game when uniformly marked.
type Line []Cell

// Board is an immutable square grid of marks. Methods never modify the receiver;
// Place returns a new board. The zero value is an empty 0×0 board.
type Board struct {
	size  int
	cells []Mark
}

// NewBoard returns a size×size board with every cell empty.
func NewBoard(size int) (Board, error) {
	if size < 1 {
		return Board{}, fmt.Errorf("%w: board size %d must be at least 1", apperror.ErrInvalidArgument, size)
	}

	return Board{
		size:  size,
		cells: make([]Mark, size*size),
	}, nil
}

// NewBoardFromRows copies rows into a new board. Rows must form a non-empty square.
func NewBoardFromRows(rows [][]Mark) (Board, error) {
	size := len(rows)

	board, err := NewBoard(size)
	if err != nil {
		return Board{}, err
	}

	for r, row := range rows {
		if len(row) != size {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidArgument, r, len(row), size)
		}

		for c, mark := range row {
			if mark != EmptyCell && !mark.IsPlayer() {
				return Board{}, fmt.Errorf("%w: unknown mark %q at (%d, %d)", apperror.ErrInvalidArgument, mark, r, c)
			}
			board.cells[r*size+c] = mark
		}
	}

	return board, nil
}

func (that Board) Size() int {
	return that.size
}

func (that Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// At returns the mark at (row, col), or EmptyCell when the position is out of bounds.
func (that Board) At(row, col int) Mark {
	if !that.InBounds(row, col) {
		return EmptyCell
	}
	return that.cells[row*that.size+col]
}

// Rows returns a deep copy of the grid.
func (that Board) Rows() [][]Mark {
	rows := make([][]Mark, that.size)
	for r := range rows {
		rows[r] = make([]Mark, that.size)
		copy(rows[r], that.cells[r*that.size:(r+1)*that.size])
	}
	return rows
}

func (that Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// Place returns a copy of the board with (row, col) set to mark.
// Occupancy is not checked.
func (that Board) Place(row, col int, mark Mark) (Board, error) {
	if !that.InBounds(row, col) {
		return Board{}, fmt.Errorf("%w: position (%d, %d) is outside a %dx%d board",
			apperror.ErrInvalidArgument, row, col, that.size, that.size)
	}

	if mark != EmptyCell && !mark.IsPlayer() {
		return Board{}, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidArgument, mark)
	}

	cells := make([]Mark, len(that.cells))
	copy(cells, that.cells)
	cells[row*that.size+col] = mark

	return Board{size: that.size, cells: cells}, nil
}

func (that Board) String() string {
	var sb strings.Builder
	for r := 0; r < that.size; r++ {
		for c := 0; c < that.size; c++ {
			sb.WriteString("[" + that.At(r, c).String() + "]")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Rows())
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Mark
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(rows) == 0 {
		*that = Board{}
		return nil
	}

	board, err := NewBoardFromRows(rows)
	if err != nil {
		return err
	}

	*that = board
	return nil
}
