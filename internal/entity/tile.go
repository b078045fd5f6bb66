package entity

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	BoardSize = 5

	// ConquestPoints is granted when a player claims a tile that holds no points.
	ConquestPoints = 3
	// ExpansionThreshold is the point count at which a tile spreads to its neighbours.
	ExpansionThreshold = 4
)

var ErrOutOfBounds = errors.New("tile is out of bounds")

// Tile is a single cell of the board.
type Tile struct {
	Owner  string `json:"owner"`
	Points int    `json:"points"`
}

func (that *Tile) IsEmpty() bool {
	return that.Owner == NoPlayer
}

func (that *Tile) IsOwnedBy(player string) bool {
	return that.Owner == player
}

func (that *Tile) Reset() {
	that.Owner = NoPlayer
	that.Points = 0
}

func (that *Tile) CanExpand() bool {
	return that.Points >= ExpansionThreshold
}

// Board is the fixed 5x5 grid, addressed as [row][col].
type Board [BoardSize][BoardSize]Tile

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func CheckBounds(row, col int) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: row %d, col %d", ErrOutOfBounds, row, col)
	}

	return nil
}

// Count returns the number of tiles owned by player.
func (that *Board) Count(player string) int {
	count := 0
	for row := range that {
		for col := range that[row] {
			if that[row][col].Owner == player {
				count++
			}
		}
	}

	return count
}

// IsFilled reports whether every tile has an owner.
func (that *Board) IsFilled() bool {
	for row := range that {
		for col := range that[row] {
			if that[row][col].IsEmpty() {
				return false
			}
		}
	}

	return true
}

func (that *Board) View(row, col int) TileView {
	tile := that[row][col]

	return TileView{
		Row:    row,
		Col:    col,
		Owner:  tile.Owner,
		Points: tile.Points,
	}
}

// Views returns the whole board in row-major order.
func (that *Board) Views() []TileView {
	views := make([]TileView, 0, BoardSize*BoardSize)
	for row := range that {
		for col := range that[row] {
			views = append(views, that.View(row, col))
		}
	}

	return views
}

// TileView is what a client needs to draw one tile.
type TileView struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Owner  string `json:"owner"`
	Points int    `json:"points"`
}

// Label is the text shown on the tile: nothing for an empty tile.
func (that TileView) Label() string {
	if that.Points == 0 {
		return ""
	}

	return strconv.Itoa(that.Points)
}
