package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
)

type GameStatus string

const (
	GameStatusWin  GameStatus = "win"
	GameStatusDraw GameStatus = "draw"
)

func (that GameStatus) IsValid() bool {
	return that == GameStatusWin || that == GameStatusDraw
}

// Game is a finished game as recorded in the ledger.
type Game struct {
	ID           int64          `json:"id"`
	BoardSize    int            `json:"boardSize"`
	Status       GameStatus     `json:"status"`
	WinnerID     *int64         `json:"winnerId,omitempty"`
	WinnerName   string         `json:"winner,omitempty"`
	Participants [2]Participant `json:"players"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Participant links a recorded game to one player under one mark.
type Participant struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
	Mark     Mark   `json:"mark"`
}

// Participants names the player behind each mark.
type Participants struct {
	X string `json:"X"`
	O string `json:"O"`
}

// NameOf returns the name playing mark, or "" for any other mark.
func (that Participants) NameOf(mark Mark) string {
	switch mark {
	case PlayerX:
		return that.X
	case PlayerO:
		return that.O
	default:
		return ""
	}
}

// MarkOf returns the mark played by name, or EmptyCell if name is not a participant.
func (that Participants) MarkOf(name string) Mark {
	switch name {
	case that.X:
		return PlayerX
	case that.O:
		return PlayerO
	default:
		return EmptyCell
	}
}

type SaveGameParams struct {
	BoardSize int          `json:"boardSize"`
	Status    GameStatus   `json:"status"`
	Winner    string       `json:"winner,omitempty"`
	Players   Participants `json:"players"`
}

// Normalize trims surrounding whitespace from every player name.
func (that SaveGameParams) Normalize() SaveGameParams {
	that.Winner = strings.TrimSpace(that.Winner)
	that.Players.X = strings.TrimSpace(that.Players.X)
	that.Players.O = strings.TrimSpace(that.Players.O)
	return that
}

// Validate checks the params before anything is written.
// Malformed input wraps apperror.ErrInvalidArgument; a win without a resolvable
// winner wraps apperror.ErrInvalidState.
func (that SaveGameParams) Validate() error {
	if that.BoardSize < 1 {
		return fmt.Errorf("%w: board size %d must be at least 1", apperror.ErrInvalidArgument, that.BoardSize)
	}

	if !that.Status.IsValid() {
		return fmt.Errorf("%w: status must be %q or %q, got %q",
			apperror.ErrInvalidArgument, GameStatusWin, GameStatusDraw, that.Status)
	}

	if that.Players.X == "" || that.Players.O == "" {
		return fmt.Errorf("%w: both player names are required", apperror.ErrInvalidArgument)
	}

	if that.Players.X == that.Players.O {
		return fmt.Errorf("%w: players must have different names", apperror.ErrInvalidArgument)
	}

	if that.Status != GameStatusWin {
		return nil
	}

	if that.Winner == "" {
		return fmt.Errorf("%w: winner name is required when status is %q", apperror.ErrInvalidState, GameStatusWin)
	}

	if that.Players.MarkOf(that.Winner) == EmptyCell {
		return fmt.Errorf("%w: winner %q is not one of the players", apperror.ErrInvalidState, that.Winner)
	}

	return nil
}

// WinnerMark returns the winning mark, or EmptyCell for a draw.
func (that SaveGameParams) WinnerMark() Mark {
	if that.Status != GameStatusWin {
		return EmptyCell
	}
	return that.Players.MarkOf(that.Winner)
}

type PlayerStats struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

func (that *PlayerStats) TotalGames() int {
	return that.Wins + that.Losses + that.Draws
}
