package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/conquest-backend/internal/conquest"
	"github.com/rocketscienceinc/conquest-backend/internal/entity"
)

const (
	actionGameNew   = "game:new"
	actionGameState = "game:state"
	actionGameMove  = "game:move"
	actionGameReset = "game:reset"
	actionGameLeave = "game:leave"
	actionTallyGet  = "tally:get"
	actionError     = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type GameRequest struct {
	ID string `json:"id"`
}

type RequestPayload struct {
	Game *GameRequest `json:"game,omitempty"`
	Row  *int         `json:"row,omitempty"`
	Col  *int         `json:"col,omitempty"`
}

type ResponsePayload struct {
	Game    *GameView     `json:"game,omitempty"`
	Tiles   []TileView    `json:"tiles,omitempty"`
	Outcome string        `json:"outcome,omitempty"`
	Tally   *entity.Tally `json:"tally,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// TileView is a tile ready to draw: Label is empty for a tile without points.
type TileView struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Owner  string `json:"owner"`
	Points int    `json:"points"`
	Label  string `json:"label"`
}

type GameView struct {
	ID      string     `json:"id"`
	Turn    string     `json:"player_turn"`
	Status  string     `json:"status"`
	Outcome string     `json:"outcome,omitempty"`
	Tiles   []TileView `json:"tiles"`
}

func newTileViews(views []entity.TileView) []TileView {
	tiles := make([]TileView, 0, len(views))
	for _, view := range views {
		tiles = append(tiles, TileView{
			Row:    view.Row,
			Col:    view.Col,
			Owner:  view.Owner,
			Points: view.Points,
			Label:  view.Label(),
		})
	}

	return tiles
}

func newGameView(game *entity.Game) *GameView {
	if game == nil {
		return nil
	}

	return &GameView{
		ID:      game.ID,
		Turn:    game.Turn,
		Status:  game.Status,
		Outcome: game.Outcome,
		Tiles:   newTileViews(game.Board.Views()),
	}
}

func newMovePayload(game *entity.Game, result *conquest.MoveResult) ResponsePayload {
	return ResponsePayload{
		Game:    newGameView(game),
		Tiles:   newTileViews(result.Tiles),
		Outcome: result.Outcome,
	}
}
