package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/conquest-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerOne = "player1"
	PlayerTwo = "player2"
	NoPlayer  = ""

	OutcomeNone          = ""
	OutcomePlayerOneWins = "player1_wins"
	OutcomePlayerTwoWins = "player2_wins"
	OutcomeDraw          = "draw"
)

var (
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrCorruptedGame     = errors.New("corrupted game state")
)

// FirstMoves tracks which players have not placed a tile yet.
type FirstMoves struct {
	PlayerOne bool `json:"player1"`
	PlayerTwo bool `json:"player2"`
}

func (that *FirstMoves) Pending(player string) bool {
	switch player {
	case PlayerOne:
		return that.PlayerOne
	case PlayerTwo:
		return that.PlayerTwo
	default:
		return false
	}
}

func (that *FirstMoves) Done(player string) {
	switch player {
	case PlayerOne:
		that.PlayerOne = false
	case PlayerTwo:
		that.PlayerTwo = false
	}
}

type Game struct {
	ID        string     `json:"id"`
	Board     Board      `json:"board"`
	Turn      string     `json:"player_turn"`
	FirstMove FirstMoves `json:"first_move"`
	Status    string     `json:"status"`
	Outcome   string     `json:"outcome"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:        id,
		Turn:      PlayerOne,
		FirstMove: FirstMoves{PlayerOne: true, PlayerTwo: true},
		Status:    StatusOngoing,
		Outcome:   OutcomeNone,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Winner returns the winning player, or NoPlayer for a draw or an unfinished game.
func (that *Game) Winner() string {
	switch that.Outcome {
	case OutcomePlayerOneWins:
		return PlayerOne
	case OutcomePlayerTwoWins:
		return PlayerTwo
	default:
		return NoPlayer
	}
}

// Clone returns a deep copy. Board is an array, so a value copy is enough.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

// Validate checks a game loaded from outside the engine.
func (that *Game) Validate() error {
	if that.Turn != PlayerOne && that.Turn != PlayerTwo {
		return fmt.Errorf("%w: unknown player turn %q", ErrCorruptedGame, that.Turn)
	}

	if that.Status != StatusOngoing && that.Status != StatusFinished {
		return fmt.Errorf("%w: %w: %s", ErrCorruptedGame, ErrUnknownGameStatus, that.Status)
	}

	for row := range that.Board {
		for col := range that.Board[row] {
			tile := that.Board[row][col]

			switch tile.Owner {
			case NoPlayer:
				if tile.Points != 0 {
					return fmt.Errorf("%w: empty tile (%d, %d) has %d points", ErrCorruptedGame, row, col, tile.Points)
				}
			case PlayerOne, PlayerTwo:
				if tile.Points <= 0 || tile.CanExpand() {
					return fmt.Errorf("%w: tile (%d, %d) has %d points", ErrCorruptedGame, row, col, tile.Points)
				}
			default:
				return fmt.Errorf("%w: tile (%d, %d) has unknown owner %q", ErrCorruptedGame, row, col, tile.Owner)
			}
		}
	}

	return nil
}

func Opponent(player string) string {
	if player == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}
