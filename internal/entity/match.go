package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

var ErrUnknownMatchStatus = errors.New("unknown match status")

// Match is a game in progress between two named players.
type Match struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Winner    Mark      `json:"winner"`
	Status    string    `json:"status"`
	Turn      Mark      `json:"player_turn"`
	Players   []*Player `json:"players,omitempty"`
	GameID    int64     `json:"game_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMatch opens a waiting match where creator plays X and moves first.
func NewMatch(id string, board Board, creator string) *Match {
	return &Match{
		ID:      id,
		Board:   board,
		Turn:    PlayerX,
		Status:  StatusWaiting,
		Players: []*Player{{Name: creator, Mark: PlayerX}},

		CreatedAt: time.Now().UTC(),
	}
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Match) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Match) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// IsRecorded reports whether the finished match has been saved to the ledger.
func (that *Match) IsRecorded() bool {
	return that.GameID != 0
}

func (that *Match) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMatchStatus, that.Status)
	}
}

// PlayerByName returns the participant with the given name, or nil.
func (that *Match) PlayerByName(name string) *Player {
	for _, player := range that.Players {
		if player.Name == name {
			return player
		}
	}
	return nil
}

// Participants names the player behind each mark.
func (that *Match) Participants() Participants {
	var participants Participants
	for _, player := range that.Players {
		switch player.Mark {
		case PlayerX:
			participants.X = player.Name
		case PlayerO:
			participants.O = player.Name
		}
	}
	return participants
}

// Result describes the finished match as ledger input.
func (that *Match) Result() (SaveGameParams, error) {
	if !that.IsFinished() {
		return SaveGameParams{}, fmt.Errorf("%w: match %s is %s", apperror.ErrMatchNotFinished, that.ID, that.Status)
	}

	params := SaveGameParams{
		BoardSize: that.Board.Size(),
		Status:    GameStatusDraw,
		Players:   that.Participants(),
	}

	if that.Winner.IsPlayer() {
		params.Status = GameStatusWin
		params.Winner = params.Players.NameOf(that.Winner)
	}

	return params, nil
}
