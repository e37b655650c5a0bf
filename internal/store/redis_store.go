package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	werrors "github.com/abgdnv/whiskystock/internal/errors"
	"github.com/redis/go-redis/v9"
)

// redisWhisky is the hash layout of a whisky. Timestamps are unix nanoseconds.
type redisWhisky struct {
	ID        int64  `redis:"id"`
	Name      string `redis:"name"`
	Brand     string `redis:"brand"`
	Type      string `redis:"type"`
	Max       int32  `redis:"max"`
	Quantity  int32  `redis:"quantity"`
	CreatedAt int64  `redis:"created_at"`
	UpdatedAt int64  `redis:"updated_at"`
}

// RedisStore implements WhiskyStore on Redis.
//
// Keys, relative to the prefix:
//
//	<prefix>:seq          id sequence (INCR)
//	<prefix>:ids          sorted set of ids, scored by id
//	<prefix>:{id}         hash holding the record
//	<prefix>:name:{name}  id owning the name (SETNX)
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store writing under the given key prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) seqKey() string { return r.prefix + ":seq" }

func (r *RedisStore) idsKey() string { return r.prefix + ":ids" }

func (r *RedisStore) recordKey(id int64) string { return r.prefix + ":" + strconv.FormatInt(id, 10) }

func (r *RedisStore) nameKey(name string) string { return r.prefix + ":name:" + name }

func (r *RedisStore) claimName(ctx context.Context, name string, id int64) (bool, error) {
	return r.client.SetNX(ctx, r.nameKey(name), id, 0).Result()
}

// Save inserts or updates a whisky. The name is claimed with SETNX so concurrent
// registrations of the same name cannot both succeed.
func (r *RedisStore) Save(ctx context.Context, whisky *Whisky) (*Whisky, error) {
	now := time.Now().UTC()
	saved := *whisky

	if saved.ID == 0 {
		id, err := r.client.Incr(ctx, r.seqKey()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to allocate whisky ID: %w", err)
		}
		ok, err := r.claimName(ctx, saved.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to claim whisky name: %w", err)
		}
		if !ok {
			return nil, werrors.ErrWhiskyAlreadyRegistered
		}
		saved.ID = id
		saved.CreatedAt = now
	} else {
		existing, err := r.FindByID(ctx, saved.ID)
		if err != nil {
			return nil, err
		}
		if existing.Name != saved.Name {
			ok, err := r.claimName(ctx, saved.Name, saved.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to claim whisky name: %w", err)
			}
			if !ok {
				return nil, werrors.ErrWhiskyAlreadyRegistered
			}
			if err := r.client.Del(ctx, r.nameKey(existing.Name)).Err(); err != nil {
				return nil, fmt.Errorf("failed to release whisky name: %w", err)
			}
		}
		saved.CreatedAt = existing.CreatedAt
	}
	saved.UpdatedAt = now

	rec := toRedis(&saved)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.recordKey(saved.ID), &rec)
		pipe.ZAdd(ctx, r.idsKey(), redis.Z{Score: float64(saved.ID), Member: saved.ID})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save whisky: %w", err)
	}
	return &saved, nil
}

func (r *RedisStore) FindByID(ctx context.Context, id int64) (*Whisky, error) {
	res := r.client.HGetAll(ctx, r.recordKey(id))
	fields, err := res.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to find whisky by ID: %w", err)
	}
	if len(fields) == 0 {
		return nil, werrors.ErrWhiskyNotFound
	}
	var rec redisWhisky
	if err := res.Scan(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode whisky %d: %w", id, err)
	}
	return fromRedis(rec), nil
}

func (r *RedisStore) FindByName(ctx context.Context, name string) (*Whisky, error) {
	id, err := r.client.Get(ctx, r.nameKey(name)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, werrors.ErrWhiskyNotFound
		}
		return nil, fmt.Errorf("failed to find whisky by name: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *RedisStore) FindAll(ctx context.Context) ([]Whisky, error) {
	ids, err := r.client.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list whisky IDs: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.prefix+":"+id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find all whiskies: %w", err)
	}

	whiskies := make([]Whisky, 0, len(ids))
	for _, cmd := range cmds {
		if len(cmd.Val()) == 0 {
			// deleted between ZRANGE and HGETALL
			continue
		}
		var rec redisWhisky
		if err := cmd.Scan(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode whisky: %w", err)
		}
		whiskies = append(whiskies, *fromRedis(rec))
	}
	return whiskies, nil
}

func (r *RedisStore) DeleteByID(ctx context.Context, id int64) error {
	name, err := r.client.HGet(ctx, r.recordKey(id), "name").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return werrors.ErrWhiskyNotFound
		}
		return fmt.Errorf("failed to delete whisky by ID: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.recordKey(id), r.nameKey(name))
		pipe.ZRem(ctx, r.idsKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete whisky by ID: %w", err)
	}
	return nil
}

func toRedis(w *Whisky) redisWhisky {
	return redisWhisky{
		ID:        w.ID,
		Name:      w.Name,
		Brand:     w.Brand,
		Type:      w.Type,
		Max:       w.Max,
		Quantity:  w.Quantity,
		CreatedAt: w.CreatedAt.UnixNano(),
		UpdatedAt: w.UpdatedAt.UnixNano(),
	}
}

func fromRedis(rec redisWhisky) *Whisky {
	return &Whisky{
		ID:        rec.ID,
		Name:      rec.Name,
		Brand:     rec.Brand,
		Type:      rec.Type,
		Max:       rec.Max,
		Quantity:  rec.Quantity,
		CreatedAt: time.Unix(0, rec.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, rec.UpdatedAt).UTC(),
	}
}
