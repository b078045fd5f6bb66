package conquest

import "github.com/rocketscienceinc/conquest-backend/internal/entity"

// updateGameStatus - settles the game after a move and passes the turn on.
func updateGameStatus(game *entity.Game, player string) {
	switch outcome := checkGameStatus(&game.Board); outcome {
	case entity.OutcomePlayerOneWins, entity.OutcomePlayerTwoWins, entity.OutcomeDraw:
		game.Outcome = outcome
		game.Status = entity.StatusFinished
	default:
		game.Turn = entity.Opponent(player)
	}
}

// checkGameStatus returns the outcome of the board, or OutcomeNone while the
// game goes on. A player needs more than one tile against none to win: a
// single tile is not enough.
func checkGameStatus(board *entity.Board) string {
	playerOneTiles := board.Count(entity.PlayerOne)
	playerTwoTiles := board.Count(entity.PlayerTwo)

	switch {
	case playerOneTiles == 0 && playerTwoTiles > 1:
		return entity.OutcomePlayerTwoWins
	case playerTwoTiles == 0 && playerOneTiles > 1:
		return entity.OutcomePlayerOneWins
	case board.IsFilled():
		return entity.OutcomeDraw
	default:
		return entity.OutcomeNone
	}
}
