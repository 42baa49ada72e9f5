package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Justin21523/procedural-3d-maze/cache/local"
	cacheredis "github.com/Justin21523/procedural-3d-maze/cache/redis"
	"github.com/Justin21523/procedural-3d-maze/config"
)

// ErrNotFound is returned when a key does not exist, whatever the backend.
var ErrNotFound = errors.New("cache: key not found")

// Store defines the KV and list operations the simulation publishes through.
type Store interface {
	// KV
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// List
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error

	Close() error
}

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

// PubSub defines channel publish/subscribe operations.
type PubSub interface {
	Publish(ctx context.Context, channel, message string) error
	Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error)
}

// New returns a Store and PubSub backed by Redis if RedisAddr is set,
// otherwise in-process ones.
func New(cfg config.CacheConfig) (Store, PubSub, error) {
	if cfg.RedisAddr != "" {
		rc, err := cacheredis.New(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return &redisStore{rc}, &redisPubSub{rc}, nil
	}
	store := local.NewStore(local.Config{GCInterval: cfg.LocalGCInterval})
	return &localStore{store}, &localPubSub{local.NewPubSub(cfg.LocalPubSubBuf)}, nil
}

// ---- adapters mapping backend sentinels and message types ----

type localStore struct {
	*local.Store
}

func (s *localStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Store.Get(ctx, key)
	if errors.Is(err, local.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

type redisStore struct {
	*cacheredis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Client.Get(ctx, key)
	if errors.Is(err, cacheredis.ErrNotFound) {
		return "", ErrNotFound
	}
	return v, err
}

type localPubSub struct {
	ps *local.PubSub
}

func (a *localPubSub) Publish(ctx context.Context, channel, message string) error {
	return a.ps.Publish(ctx, channel, message)
}

func (a *localPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	localCh, cancel, err := a.ps.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, cap(localCh))
	go func() {
		defer close(out)
		for msg := range localCh {
			out <- &Message{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	return out, cancel, nil
}

type redisPubSub struct {
	c *cacheredis.Client
}

func (a *redisPubSub) Publish(ctx context.Context, channel, message string) error {
	return a.c.Publish(ctx, channel, message)
}

func (a *redisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *Message, func(), error) {
	redisCh, cancel, err := a.c.Subscribe(ctx, channels...)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *Message, 256)
	go func() {
		defer close(out)
		for msg := range redisCh {
			out <- &Message{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()
	return out, cancel, nil
}
