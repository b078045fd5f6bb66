package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/conquest-backend/internal/apperror"
	"github.com/rocketscienceinc/conquest-backend/internal/entity"
)

var (
	errRedisDown     = errors.New("redis down")
	errStorageIsFull = errors.New("storage is full")
	errGameNotFound  = fmt.Errorf("game %w", apperror.ErrNotFound)
)

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockTallyRepo struct {
	mock.Mock
}

func (that *mockTallyRepo) Increment(ctx context.Context, winner string) (*entity.Tally, error) {
	args := that.Called(ctx, winner)
	tally, _ := args.Get(0).(*entity.Tally)
	return tally, args.Error(1)
}

func (that *mockTallyRepo) Get(ctx context.Context) (*entity.Tally, error) {
	args := that.Called(ctx)
	tally, _ := args.Get(0).(*entity.Tally)
	return tally, args.Error(1)
}

func newTestManager(t *testing.T) (*GameManager, *mockGameRepo, *mockTallyRepo) {
	t.Helper()

	gameRepo := &mockGameRepo{}
	tallyRepo := &mockTallyRepo{}
	t.Cleanup(func() {
		gameRepo.AssertExpectations(t)
		tallyRepo.AssertExpectations(t)
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewGameManager(logger, gameRepo, tallyRepo), gameRepo, tallyRepo
}

// playedGame returns a stored game past both opening moves.
func playedGame(id string) *entity.Game {
	game := entity.NewGame(id)
	game.FirstMove = entity.FirstMoves{}
	game.Board[0][0] = entity.Tile{Owner: entity.PlayerOne, Points: 3}
	game.Board[4][4] = entity.Tile{Owner: entity.PlayerTwo, Points: 3}

	return game
}

func TestGameManager_GetOrCreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new game when id is empty", func(t *testing.T) {
		// Given: a repository accepting new games
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: GetOrCreateGame is called without an id
		game, err := manager.GetOrCreateGame(ctx, "")

		// Then: a fresh game with a generated id is returned
		require.NoError(t, err)
		_, err = uuid.Parse(game.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.NewGame(game.ID), game)
	})

	t.Run("Returns existing game", func(t *testing.T) {
		// Given: a stored game
		manager, gameRepo, _ := newTestManager(t)
		existingGame := playedGame("g1")

		gameRepo.On("GetByID", ctx, "g1").
			Return(existingGame, nil).
			Once()

		// When: GetOrCreateGame is called with its id
		game, err := manager.GetOrCreateGame(ctx, "g1")

		// Then: the stored game is returned
		require.NoError(t, err)
		assert.Equal(t, existingGame, game)
	})

	t.Run("Creates a game under an unknown id", func(t *testing.T) {
		// Given: no game stored under the id
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("GetByID", ctx, "g2").
			Return(nil, errGameNotFound).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.MatchedBy(func(game *entity.Game) bool {
			return game.ID == "g2"
		})).
			Return(nil).
			Once()

		// When: GetOrCreateGame is called with that id
		game, err := manager.GetOrCreateGame(ctx, "g2")

		// Then: a new game keeps the requested id
		require.NoError(t, err)
		assert.Equal(t, entity.NewGame("g2"), game)
	})

	t.Run("Returns error if gameRepo.GetByID fails", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("GetByID", ctx, "g3").
			Return(nil, errRedisDown).
			Once()

		game, err := manager.GetOrCreateGame(ctx, "g3")

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})

	t.Run("Returns error if gameRepo.CreateOrUpdate fails", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).
			Return(errStorageIsFull).
			Once()

		game, err := manager.GetOrCreateGame(ctx, "")

		require.ErrorIs(t, err, errStorageIsFull)
		assert.Nil(t, game)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful first move", func(t *testing.T) {
		// Given: a new stored game
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("GetByID", ctx, "g1").
			Return(entity.NewGame("g1"), nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.MatchedBy(func(game *entity.Game) bool {
			return game.Board[2][2] == entity.Tile{Owner: entity.PlayerOne, Points: 3} &&
				game.Turn == entity.PlayerTwo
		})).
			Return(nil).
			Once()

		// When: player 1 plays (2, 2)
		game, result, err := manager.MakeMove(ctx, "g1", 2, 2)

		// Then: the move is stored and reported
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerTwo, game.Turn)
		assert.Equal(t, entity.PlayerOne, result.Player)
		assert.Equal(t, []entity.TileView{{Row: 2, Col: 2, Owner: entity.PlayerOne, Points: 3}}, result.Tiles)
		assert.False(t, result.Finished)
	})

	t.Run("Rejected move is not stored", func(t *testing.T) {
		// Given: a game where player 1 is to move
		manager, gameRepo, _ := newTestManager(t)
		stored := playedGame("g1")

		gameRepo.On("GetByID", ctx, "g1").
			Return(stored, nil).
			Once()

		// When: player 1 plays on player 2's tile
		game, result, err := manager.MakeMove(ctx, "g1", 4, 4)

		// Then: ErrNotYourTile is returned with the unchanged game
		require.ErrorIs(t, err, apperror.ErrNotYourTile)
		assert.Nil(t, result)
		assert.Equal(t, stored, game)
	})

	t.Run("Out of bounds move is rejected", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("GetByID", ctx, "g1").
			Return(entity.NewGame("g1"), nil).
			Once()

		_, _, err := manager.MakeMove(ctx, "g1", 5, 0)

		require.ErrorIs(t, err, entity.ErrOutOfBounds)
	})

	t.Run("Winning move records the tally", func(t *testing.T) {
		// Given: player 1 can wipe out player 2's last tile
		manager, gameRepo, tallyRepo := newTestManager(t)
		stored := entity.NewGame("g1")
		stored.FirstMove = entity.FirstMoves{}
		stored.Board[0][0] = entity.Tile{Owner: entity.PlayerOne, Points: 3}
		stored.Board[0][1] = entity.Tile{Owner: entity.PlayerTwo, Points: 2}

		gameRepo.On("GetByID", ctx, "g1").
			Return(stored, nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.MatchedBy(func(game *entity.Game) bool {
			return game.IsFinished()
		})).
			Return(nil).
			Once()
		tallyRepo.On("Increment", ctx, entity.PlayerOne).
			Return(&entity.Tally{PlayerOne: 1}, nil).
			Once()

		// When: player 1 expands (0, 0)
		game, result, err := manager.MakeMove(ctx, "g1", 0, 0)

		// Then: player 1 wins and the win is counted
		require.NoError(t, err)
		assert.True(t, result.Finished)
		assert.Equal(t, entity.OutcomePlayerOneWins, game.Outcome)
	})

	t.Run("Draw is not tallied", func(t *testing.T) {
		// Given: a full board with both players on it
		manager, gameRepo, _ := newTestManager(t)
		stored := entity.NewGame("g1")
		stored.FirstMove = entity.FirstMoves{}
		for row := range stored.Board {
			for col := range stored.Board[row] {
				owner := entity.PlayerOne
				if row == 4 {
					owner = entity.PlayerTwo
				}
				stored.Board[row][col] = entity.Tile{Owner: owner, Points: 1}
			}
		}

		gameRepo.On("GetByID", ctx, "g1").
			Return(stored, nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()

		// When: player 1 reinforces a tile
		game, result, err := manager.MakeMove(ctx, "g1", 0, 0)

		// Then: the game is a draw and the tally is untouched
		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeDraw, result.Outcome)
		assert.True(t, game.IsFinished())
	})

	t.Run("Failed tally update does not fail the move", func(t *testing.T) {
		manager, gameRepo, tallyRepo := newTestManager(t)
		stored := entity.NewGame("g1")
		stored.FirstMove = entity.FirstMoves{}
		stored.Board[0][0] = entity.Tile{Owner: entity.PlayerOne, Points: 3}
		stored.Board[0][1] = entity.Tile{Owner: entity.PlayerTwo, Points: 2}

		gameRepo.On("GetByID", ctx, "g1").
			Return(stored, nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).
			Return(nil).
			Once()
		tallyRepo.On("Increment", ctx, entity.PlayerOne).
			Return(nil, errRedisDown).
			Once()

		_, result, err := manager.MakeMove(ctx, "g1", 0, 0)

		require.NoError(t, err)
		assert.True(t, result.Finished)
	})

	t.Run("Move on finished game", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)
		stored := playedGame("g1")
		stored.Status = entity.StatusFinished
		stored.Outcome = entity.OutcomeDraw

		gameRepo.On("GetByID", ctx, "g1").
			Return(stored, nil).
			Once()

		game, _, err := manager.MakeMove(ctx, "g1", 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, stored, game)
	})

	t.Run("Error if game not found", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("GetByID", ctx, "g2").
			Return(nil, errGameNotFound).
			Once()

		game, result, err := manager.MakeMove(ctx, "g2", 1, 1)

		require.ErrorIs(t, err, errGameNotFound)
		assert.Nil(t, game)
		assert.Nil(t, result)
	})

	t.Run("Error if stored game is corrupted", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)
		stored := entity.NewGame("g1")
		stored.Board[1][1] = entity.Tile{Owner: entity.PlayerOne, Points: 7}

		gameRepo.On("GetByID", ctx, "g1").
			Return(stored, nil).
			Once()

		_, _, err := manager.MakeMove(ctx, "g1", 1, 1)

		require.ErrorIs(t, err, entity.ErrCorruptedGame)
	})

	t.Run("Error if game cannot be stored", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("GetByID", ctx, "g1").
			Return(entity.NewGame("g1"), nil).
			Once()
		gameRepo.On("CreateOrUpdate", ctx, mock.AnythingOfType("*entity.Game")).
			Return(errStorageIsFull).
			Once()

		game, result, err := manager.MakeMove(ctx, "g1", 0, 0)

		require.ErrorIs(t, err, errStorageIsFull)
		assert.Nil(t, game)
		assert.Nil(t, result)
	})
}

func TestGameManager_ResetGame(t *testing.T) {
	ctx := context.Background()

	// Given: a game in progress
	manager, gameRepo, _ := newTestManager(t)

	gameRepo.On("GetByID", ctx, "g1").
		Return(playedGame("g1"), nil).
		Once()
	gameRepo.On("CreateOrUpdate", ctx, entity.NewGame("g1")).
		Return(nil).
		Once()

	// When: the game is reset
	game, err := manager.ResetGame(ctx, "g1")

	// Then: the initial state is stored and returned
	require.NoError(t, err)
	assert.Equal(t, entity.NewGame("g1"), game)
}

func TestGameManager_EndGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the game", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("DeleteByID", ctx, "g1").
			Return(nil).
			Once()

		require.NoError(t, manager.EndGame(ctx, "g1"))
	})

	t.Run("Returns repository error", func(t *testing.T) {
		manager, gameRepo, _ := newTestManager(t)

		gameRepo.On("DeleteByID", ctx, "g1").
			Return(errRedisDown).
			Once()

		require.ErrorIs(t, manager.EndGame(ctx, "g1"), errRedisDown)
	})
}

func TestGameManager_GetTally(t *testing.T) {
	ctx := context.Background()

	manager, _, tallyRepo := newTestManager(t)

	tallyRepo.On("Get", ctx).
		Return(&entity.Tally{PlayerOne: 3, PlayerTwo: 5}, nil).
		Once()

	tally, err := manager.GetTally(ctx)

	require.NoError(t, err)
	assert.Equal(t, &entity.Tally{PlayerOne: 3, PlayerTwo: 5}, tally)
}
