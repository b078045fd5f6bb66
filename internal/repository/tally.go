package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/conquest-backend/internal/entity"
)

const tallyKey = "tally"

type TallyRepository interface {
	Increment(ctx context.Context, winner string) (*entity.Tally, error)
	Get(ctx context.Context) (*entity.Tally, error)
}

type dbTally struct {
	client *redis.Client
}

// NewTallyRepository keeps the win counts in a single hash, one field per player.
func NewTallyRepository(client *redis.Client) TallyRepository {
	return &dbTally{
		client: client,
	}
}

func (that *dbTally) Increment(ctx context.Context, winner string) (*entity.Tally, error) {
	if winner != entity.PlayerOne && winner != entity.PlayerTwo {
		return nil, fmt.Errorf("unknown winner %q", winner)
	}

	if err := that.client.HIncrBy(ctx, tallyKey, winner, 1).Err(); err != nil {
		return nil, fmt.Errorf("failed to increment tally: %w", err)
	}

	return that.Get(ctx)
}

func (that *dbTally) Get(ctx context.Context) (*entity.Tally, error) {
	fields, err := that.client.HGetAll(ctx, tallyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tally: %w", err)
	}

	tally := &entity.Tally{}

	if tally.PlayerOne, err = parseCount(fields[entity.PlayerOne]); err != nil {
		return nil, err
	}

	if tally.PlayerTwo, err = parseCount(fields[entity.PlayerTwo]); err != nil {
		return nil, err
	}

	return tally, nil
}

func parseCount(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	count, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse tally count %q: %w", value, err)
	}

	return count, nil
}
