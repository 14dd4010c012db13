package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements Store on a Redis instance. Text values are Redis
// strings. Legacy objects are Redis hashes with one JSON-encoded field per
// top-level key of the object.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// Get returns the value stored under key.
func (r *RedisStore) Get(ctx context.Context, key string) (Value, error) {
	typ, err := r.rdb.Type(ctx, key).Result()
	if err != nil {
		return Value{}, fmt.Errorf("get %s: %w", key, err)
	}
	switch typ {
	case "none":
		return Value{Kind: KindNone}, nil
	case "string":
		text, err := r.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			return Value{Kind: KindNone}, nil
		}
		if err != nil {
			return Value{}, fmt.Errorf("get %s: %w", key, err)
		}
		return Value{Kind: KindText, Text: text}, nil
	case "hash":
		fields, err := r.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return Value{}, fmt.Errorf("get %s: %w", key, err)
		}
		obj, err := hashToObject(fields)
		if err != nil {
			return Value{}, fmt.Errorf("get %s: %w", key, err)
		}
		return Value{Kind: KindObject, Object: obj}, nil
	default:
		return Value{}, fmt.Errorf("get %s: unsupported redis type %q", key, typ)
	}
}

// Set stores text under key, replacing a legacy hash if one is present.
func (r *RedisStore) Set(ctx context.Context, key, text string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.Set(ctx, key, text, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetObject stores obj under key as a hash. obj must be a JSON object.
func (r *RedisStore) SetObject(ctx context.Context, key string, obj json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj, &fields); err != nil {
		return fmt.Errorf("set %s: object must be a JSON object: %w", key, err)
	}
	values := make([]any, 0, len(fields)*2)
	for name, raw := range fields {
		values = append(values, name, string(raw))
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(values) > 0 {
			p.HSet(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

// hashToObject rebuilds a JSON object from hash fields. A field that is not
// valid JSON is carried as a JSON string so the decoder sees it as-is.
func hashToObject(fields map[string]string) (json.RawMessage, error) {
	obj := make(map[string]json.RawMessage, len(fields))
	for name, v := range fields {
		if json.Valid([]byte(v)) {
			obj[name] = json.RawMessage(v)
			continue
		}
		quoted, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[name] = quoted
	}
	return json.Marshal(obj)
}
