package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-ledger/internal/entity"
)

type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	// Update applies mutate to the stored match and writes it back atomically.
	// A concurrent write to the same match fails the update with apperror.ErrConflict.
	Update(ctx context.Context, id string, mutate func(match *entity.Match) error) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository stores matches as JSON under "match:<id>"; a zero ttl keeps them forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func matchKey(id string) string {
	return "match:" + id
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	err = that.client.Set(ctx, matchKey(match.ID), matchJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	return that.get(ctx, that.client, id)
}

func (that *dbMatch) get(ctx context.Context, client stringGetter, id string) (*entity.Match, error) {
	response, err := client.Get(ctx, matchKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("match %s: %w", id, apperror.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var existingMatch entity.Match
	if err = json.Unmarshal([]byte(response), &existingMatch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &existingMatch, nil
}

func (that *dbMatch) Update(
	ctx context.Context,
	id string,
	mutate func(match *entity.Match) error,
) (*entity.Match, error) {
	key := matchKey(id)

	var updated *entity.Match
	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		match, err := that.get(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = mutate(match); err != nil {
			return err
		}

		matchJSON, err := json.Marshal(match)
		if err != nil {
			return fmt.Errorf("could not marshal match: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, matchJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = match
		return nil
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("match %s: %w", id, apperror.ErrConflict)
	}

	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (that *dbMatch) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, matchKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete match by id: %w", err)
	}

	if deleted == 0 {
		return fmt.Errorf("match %s: %w", id, apperror.ErrNotFound)
	}

	return nil
}
