// Package conquest holds the rules of the game: move legality, the expansion
// cascade and the win/draw check. It performs no I/O.
package conquest

import (
	"fmt"

	"github.com/rocketscienceinc/conquest-backend/internal/apperror"
	"github.com/rocketscienceinc/conquest-backend/internal/entity"
)

// MoveResult describes what a successful move changed.
type MoveResult struct {
	Player string `json:"player"`
	// Tiles lists every tile the move touched, in the order they were first
	// touched, with their state after the board settled.
	Tiles      []entity.TileView `json:"tiles"`
	Expansions int               `json:"expansions"`
	Finished   bool              `json:"finished"`
	Outcome    string            `json:"outcome,omitempty"`
}

// Engine owns one game. It is not safe for concurrent use: callers must not
// start a move while another one on the same engine is running.
type Engine struct {
	game *entity.Game

	// per-move bookkeeping
	touched    []position
	seen       [entity.BoardSize][entity.BoardSize]bool
	expansions int
}

type position struct {
	row, col int
}

func NewEngine(id string) *Engine {
	return &Engine{game: entity.NewGame(id)}
}

// Restore wraps a previously stored game.
func Restore(game *entity.Game) (*Engine, error) {
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", game.ID, err)
	}

	return &Engine{game: game.Clone()}, nil
}

// Game returns a copy of the current state.
func (that *Engine) Game() *entity.Game {
	return that.game.Clone()
}

func (that *Engine) Tile(row, col int) (entity.Tile, error) {
	if err := entity.CheckBounds(row, col); err != nil {
		return entity.Tile{}, err
	}

	return that.game.Board[row][col], nil
}

// Reset puts the game back to its initial state, keeping its ID.
func (that *Engine) Reset() {
	that.game = entity.NewGame(that.game.ID)
}

// ApplyMove plays the current player on (row, col). A rejected move returns
// an error and leaves the game untouched.
func (that *Engine) ApplyMove(row, col int) (*MoveResult, error) {
	if err := that.game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	if err := validateMove(that.game, row, col); err != nil {
		return nil, fmt.Errorf("invalid move: %w", err)
	}

	that.beginMove()

	player := that.game.Turn
	that.game.FirstMove.Done(player)

	tile := &that.game.Board[row][col]
	tile.Owner = player
	if tile.Points == 0 {
		tile.Points = entity.ConquestPoints
	} else {
		tile.Points++
	}
	that.touch(row, col)

	that.expandBoard()
	updateGameStatus(that.game, player)

	result := &MoveResult{
		Player:     player,
		Tiles:      that.touchedViews(),
		Expansions: that.expansions,
		Finished:   that.game.IsFinished(),
		Outcome:    that.game.Outcome,
	}

	return result, nil
}

// validateMove - checks if the current player may play on the tile.
func validateMove(game *entity.Game, row, col int) error {
	if err := entity.CheckBounds(row, col); err != nil {
		return err
	}

	player := game.Turn
	if game.FirstMove.Pending(player) {
		return nil
	}

	if !game.Board[row][col].IsOwnedBy(player) {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrNotYourTile, row, col)
	}

	return nil
}

func (that *Engine) beginMove() {
	that.touched = that.touched[:0]
	that.seen = [entity.BoardSize][entity.BoardSize]bool{}
	that.expansions = 0
}

func (that *Engine) touch(row, col int) {
	if that.seen[row][col] {
		return
	}

	that.seen[row][col] = true
	that.touched = append(that.touched, position{row: row, col: col})
}

func (that *Engine) touchedViews() []entity.TileView {
	views := make([]entity.TileView, 0, len(that.touched))
	for _, pos := range that.touched {
		views = append(views, that.game.Board.View(pos.row, pos.col))
	}

	return views
}
