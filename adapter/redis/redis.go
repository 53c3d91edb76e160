package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/tributarygo/adapter/internal/codec"
	"github.com/smallnest/tributarygo/streaming"
)

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Key prefix, default "tributary:"
}

// NewClient creates a Redis client from opts.
func NewClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

func prefixed(prefix, key string) string {
	if prefix == "" {
		prefix = "tributary:"
	}
	return prefix + key
}

// ListSourceOptions configures a ListSource.
type ListSourceOptions struct {
	Prefix string

	// StopWhenEmpty ends the source once the list is empty. Otherwise the
	// source blocks until new values are pushed.
	StopWhenEmpty bool

	// PopTimeout bounds each blocking pop, default 1s. The source keeps
	// waiting across timeouts until its context is done.
	PopTimeout time.Duration
}

// ListSource pops JSON values from the head of a Redis list.
type ListSource struct {
	client *redis.Client
	key    string
	opts   ListSourceOptions
	done   bool
}

var _ streaming.Source = (*ListSource)(nil)

// NewListSource creates a source reading the list stored at key.
func NewListSource(client *redis.Client, key string, opts ListSourceOptions) *ListSource {
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = time.Second
	}
	return &ListSource{client: client, key: prefixed(opts.Prefix, key), opts: opts}
}

// Key returns the full Redis key
func (s *ListSource) Key() string { return s.key }

func (s *ListSource) HasNext() bool { return !s.done }

func (s *ListSource) Next(ctx context.Context) (any, error) {
	if s.done {
		return nil, streaming.ErrExhausted
	}
	if s.opts.StopWhenEmpty {
		raw, err := s.client.LPop(ctx, s.key).Result()
		if errors.Is(err, redis.Nil) {
			s.done = true
			return nil, streaming.ErrExhausted
		}
		if err != nil {
			return nil, fmt.Errorf("failed to pop from %s: %w", s.key, err)
		}
		return codec.Decode([]byte(raw)), nil
	}

	for {
		res, err := s.client.BLPop(ctx, s.opts.PopTimeout, s.key).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to pop from %s: %w", s.key, err)
		}
		// BLPOP replies with the key followed by the value
		return codec.Decode([]byte(res[1])), nil
	}
}

// ListSinkOptions configures a ListSink.
type ListSinkOptions struct {
	Prefix string
	MaxLen int64         // Trim the list to the newest MaxLen values, 0 keeps all
	TTL    time.Duration // Expiration of the list, 0 means none
}

// ListSink appends JSON encoded values to the tail of a Redis list.
type ListSink struct {
	client *redis.Client
	key    string
	opts   ListSinkOptions
}

var _ streaming.Writer = (*ListSink)(nil)

// NewListSink creates a sink writing to the list stored at key.
func NewListSink(client *redis.Client, key string, opts ListSinkOptions) *ListSink {
	return &ListSink{client: client, key: prefixed(opts.Prefix, key), opts: opts}
}

// Key returns the full Redis key
func (s *ListSink) Key() string { return s.key }

// Write appends v to the list.
func (s *ListSink) Write(ctx context.Context, v any) error {
	data, err := codec.Encode(v)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.key, data)
	if s.opts.MaxLen > 0 {
		pipe.LTrim(ctx, s.key, -s.opts.MaxLen, -1)
	}
	if s.opts.TTL > 0 {
		pipe.Expire(ctx, s.key, s.opts.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.key, err)
	}
	return nil
}
