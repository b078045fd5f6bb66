package conquest

import "github.com/rocketscienceinc/conquest-backend/internal/entity"

// neighbours is the visiting order of an expansion: left, right, up, down.
// Changing it changes which captures happen first in a cascade.
var neighbours = [4]position{
	{row: 0, col: -1},
	{row: 0, col: 1},
	{row: -1, col: 0},
	{row: 1, col: 0},
}

// expandBoard scans the board in row-major order and expands every tile that
// reached the threshold. The scan reads the live board, so tiles changed by
// an earlier expansion are picked up when the scan reaches them.
func (that *Engine) expandBoard() {
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if that.game.Board[row][col].CanExpand() {
				that.expandTile(row, col)
			}
		}
	}
}

// expandTile empties the tile and spreads its owner to the orthogonal
// neighbours, recursing depth-first into any neighbour that reaches the
// threshold. Every call zeroes one tile holding at least the threshold, which
// bounds the cascade.
func (that *Engine) expandTile(row, col int) {
	board := &that.game.Board
	player := board[row][col].Owner

	board[row][col].Reset()
	that.touch(row, col)
	that.expansions++

	for _, dir := range neighbours {
		nextRow, nextCol := row+dir.row, col+dir.col
		if !entity.InBounds(nextRow, nextCol) {
			continue
		}

		adjacent := &board[nextRow][nextCol]
		if adjacent.Owner != player {
			adjacent.Owner = player
			adjacent.Points = 1
		} else {
			adjacent.Points++
		}
		that.touch(nextRow, nextCol)

		if adjacent.CanExpand() {
			that.expandTile(nextRow, nextCol)
		}
	}
}
