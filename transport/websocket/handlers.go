package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/conquest-backend/internal/apperror"
	"github.com/rocketscienceinc/conquest-backend/internal/entity"
)

func decodePayload(msg *Message) (*RequestPayload, error) {
	var payloadReq RequestPayload
	if len(msg.Payload) == 0 {
		return &payloadReq, nil
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payloadReq, nil
}

// decodeGamePayload decodes a payload that must name a game.
func (that *Server) decodeGamePayload(msg *Message, conn *websocket.Conn) (*RequestPayload, bool, error) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return nil, false, that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		return nil, false, that.sendErrorResponse(conn, msg.Action, "Game is required")
	}

	return payloadReq, true, nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	var gameID string
	if payloadReq.Game != nil {
		gameID = payloadReq.Game.ID
	}

	game, err := that.gameUseCase.GetOrCreateGame(ctx, gameID)
	if err != nil {
		log.Error("failed to create or get game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	log.Info("game ready", "gameID", game.ID)

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: newGameView(game)})
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, ok, err := that.decodeGamePayload(msg, conn)
	if !ok {
		return err
	}

	game, err := that.gameUseCase.GetGame(ctx, payloadReq.Game.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, gameError(payloadReq.Game.ID, err))
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: newGameView(game)})
}

func (that *Server) handleGameMove(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameMove")

	payloadReq, ok, err := that.decodeGamePayload(msg, conn)
	if !ok {
		return err
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendErrorResponse(conn, msg.Action, "Row and col are required")
	}

	log = log.With("gameID", payloadReq.Game.ID)

	game, result, err := that.gameUseCase.MakeMove(ctx, payloadReq.Game.ID, *payloadReq.Row, *payloadReq.Col)
	if isRejection(err) {
		log.Debug("move rejected", "error", err)

		return that.sendMessage(conn, msg.Action, ResponsePayload{
			Game:  newGameView(game),
			Error: rejectionMessage(err),
		})
	}

	if err != nil {
		log.Error("failed to make move", "error", err)
		return that.sendErrorResponse(conn, msg.Action, gameError(payloadReq.Game.ID, err))
	}

	return that.sendMessage(conn, msg.Action, newMovePayload(game, result))
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, ok, err := that.decodeGamePayload(msg, conn)
	if !ok {
		return err
	}

	game, err := that.gameUseCase.ResetGame(ctx, payloadReq.Game.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, gameError(payloadReq.Game.ID, err))
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: newGameView(game)})
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, ok, err := that.decodeGamePayload(msg, conn)
	if !ok {
		return err
	}

	if err = that.gameUseCase.EndGame(ctx, payloadReq.Game.ID); err != nil {
		return that.sendErrorResponse(conn, msg.Action, gameError(payloadReq.Game.ID, err))
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{})
}

func (that *Server) handleTally(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	tally, err := that.gameUseCase.GetTally(ctx)
	if err != nil {
		that.logger.Error("failed to get tally", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to get tally")
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Tally: tally})
}

func isRejection(err error) bool {
	return errors.Is(err, apperror.ErrNotYourTile) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, entity.ErrOutOfBounds)
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotYourTile):
		return apperror.ErrNotYourTile.Error()
	case errors.Is(err, apperror.ErrGameFinished):
		return apperror.ErrGameFinished.Error()
	default:
		return entity.ErrOutOfBounds.Error()
	}
}

func gameError(gameID string, err error) string {
	if errors.Is(err, apperror.ErrNotFound) {
		return fmt.Sprintf("game %s not found", gameID)
	}

	return fmt.Sprintf("game %s: internal error", gameID)
}
