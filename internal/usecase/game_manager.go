package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/conquest-backend/internal/apperror"
	"github.com/rocketscienceinc/conquest-backend/internal/conquest"
	"github.com/rocketscienceinc/conquest-backend/internal/entity"
	"github.com/rocketscienceinc/conquest-backend/internal/observability"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type tallyRepo interface {
	Increment(ctx context.Context, winner string) (*entity.Tally, error)
	Get(ctx context.Context) (*entity.Tally, error)
}

// GameManager runs hot-seat games: one client plays both sides of a stored game.
type GameManager struct {
	logger    *slog.Logger
	gameRepo  gameRepo
	tallyRepo tallyRepo

	// mu makes each load-play-store sequence atomic.
	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, tallyRepo tallyRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:  gameRepo,
		tallyRepo: tallyRepo,
	}
}

// GetOrCreateGame returns the stored game with the given id, or a new game
// when id is empty or unknown.
func (that *GameManager) GetOrCreateGame(ctx context.Context, id string) (*entity.Game, error) {
	if id != "" {
		existingGame, err := that.gameRepo.GetByID(ctx, id)
		if err == nil {
			return existingGame, nil
		}

		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}
	}

	return that.createGame(ctx, id)
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return existingGame, nil
}

// MakeMove plays the current player of the game on (row, col). On a rejected
// move the unchanged game is returned together with the error.
func (that *GameManager) MakeMove(ctx context.Context, gameID string, row, col int) (*entity.Game, *conquest.MoveResult, error) {
	log := that.logger.With("method", "MakeMove", "gameID", gameID)

	that.mu.Lock()
	defer that.mu.Unlock()

	engine, err := that.loadEngine(ctx, gameID)
	if err != nil {
		observability.MovesTotal.WithLabelValues(observability.MoveInternalError).Inc()
		return nil, nil, err
	}

	result, err := engine.ApplyMove(row, col)
	if err != nil {
		observability.MovesTotal.WithLabelValues(moveRejection(err)).Inc()
		log.Debug("move rejected", "row", row, "col", col, "error", err)

		return engine.Game(), nil, fmt.Errorf("failed to make move: %w", err)
	}

	observability.MovesTotal.WithLabelValues(observability.MoveApplied).Inc()
	observability.ExpansionsTotal.Add(float64(result.Expansions))

	game := engine.Game()
	if err = that.updateGame(ctx, game); err != nil {
		return nil, nil, err
	}

	if result.Finished {
		that.finishGame(ctx, game)
	}

	log.Debug("move applied", "player", result.Player, "row", row, "col", col, "expansions", result.Expansions)

	return game, result, nil
}

// ResetGame puts the game back to its initial state.
func (that *GameManager) ResetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	engine, err := that.loadEngine(ctx, gameID)
	if err != nil {
		return nil, err
	}

	engine.Reset()

	game := engine.Game()
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game reset", "gameID", gameID)

	return game, nil
}

func (that *GameManager) EndGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", gameID)

	return nil
}

func (that *GameManager) GetTally(ctx context.Context) (*entity.Tally, error) {
	tally, err := that.tallyRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tally: %w", err)
	}

	return tally, nil
}

func (that *GameManager) createGame(ctx context.Context, id string) (*entity.Game, error) {
	if id == "" {
		id = uuid.NewString()
	}

	newGame := entity.NewGame(id)
	if err := that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", id)

	return newGame, nil
}

func (that *GameManager) loadEngine(ctx context.Context, gameID string) (*conquest.Engine, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := conquest.Restore(existingGame)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	return engine, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// finishGame records the outcome. The game itself stays stored so the client
// can still render the final board and reset it.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	observability.GamesFinishedTotal.WithLabelValues(game.Outcome).Inc()

	winner := game.Winner()
	if winner == entity.NoPlayer {
		log.Info("game finished", "outcome", game.Outcome)
		return
	}

	tally, err := that.tallyRepo.Increment(ctx, winner)
	if err != nil {
		log.Error("failed to record win", "winner", winner, "error", err)
		return
	}

	log.Info("game finished", "outcome", game.Outcome, "player1Wins", tally.PlayerOne, "player2Wins", tally.PlayerTwo)
}

func moveRejection(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotYourTile):
		return observability.MoveNotYourTile
	case errors.Is(err, entity.ErrOutOfBounds):
		return observability.MoveOutOfBounds
	case errors.Is(err, apperror.ErrGameFinished):
		return observability.MoveGameFinished
	default:
		return observability.MoveInternalError
	}
}
