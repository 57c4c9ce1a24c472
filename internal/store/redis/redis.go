package redis

import (
	"context"

	"github.com/mediocregopher/radix/v4"

	"skinsight.app/skinsight/internal/store"
)

const viewStateKey = "hash:view-state"

const currentSkinField = "currentSkin"
const currentPlayerNameField = "currentPlayerName"
const animationEnabledField = "animationEnabled"

// Redis keeps the view state in a single hash, which allows the skin and
// the player name entries to be written and removed independently
type Redis struct {
	client radix.Client
}

func New(ctx context.Context, addr string, poolSize int) (*Redis, error) {
	client, err := (radix.PoolConfig{Size: poolSize}).New(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Redis{
		client: client,
	}, nil
}

func (r *Redis) Snapshot(ctx context.Context) (*store.Snapshot, error) {
	var fields map[string]string
	err := r.client.Do(ctx, radix.Cmd(&fields, "HGETALL", viewStateKey))
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, nil
	}

	return &store.Snapshot{
		CurrentSkin:       fields[currentSkinField],
		CurrentPlayerName: fields[currentPlayerNameField],
		AnimationEnabled:  fields[animationEnabledField],
	}, nil
}

func (r *Redis) SetCurrentSkin(ctx context.Context, source string, playerName string) error {
	return r.client.Do(ctx, radix.WithConn("", func(ctx context.Context, conn radix.Conn) error {
		err := conn.Do(ctx, radix.Cmd(nil, "MULTI"))
		if err != nil {
			return err
		}

		err = conn.Do(ctx, radix.FlatCmd(nil, "HSET", viewStateKey, currentSkinField, source))
		if err != nil {
			return err
		}

		// The name entry must be absent, not empty, when the skin came from
		// a direct upload and no name is known
		if playerName != "" {
			err = conn.Do(ctx, radix.FlatCmd(nil, "HSET", viewStateKey, currentPlayerNameField, playerName))
		} else {
			err = conn.Do(ctx, radix.Cmd(nil, "HDEL", viewStateKey, currentPlayerNameField))
		}

		if err != nil {
			return err
		}

		return conn.Do(ctx, radix.Cmd(nil, "EXEC"))
	}))
}

func (r *Redis) ClearCurrentSkin(ctx context.Context) error {
	return r.client.Do(ctx, radix.Cmd(nil, "HDEL", viewStateKey, currentSkinField, currentPlayerNameField))
}

func (r *Redis) SetAnimationEnabled(ctx context.Context, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}

	return r.client.Do(ctx, radix.FlatCmd(nil, "HSET", viewStateKey, animationEnabledField, value))
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Do(ctx, radix.Cmd(nil, "PING"))
}
