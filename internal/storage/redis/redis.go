package redis

import (
	"context"
	"time"

	"greencommute/internal/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const tier = "redis"

// common wrapper above a redis, with async saver
type Client[V any] struct {
	rdb       *redis.Client
	marshal   func(V) (string, error)
	unmarshal func(string) (V, error)
	saveChan  chan redisEntity[V]
	ttl       time.Duration
	done      <-chan struct{}
}

type redisEntity[V any] struct {
	key   string
	value V
}

func New[V any](ctx context.Context,
	addr string,
	password string,
	db int,
	marshal func(V) (string, error),
	unmarshal func(string) (V, error),
	chanSize int,
	ttl time.Duration) *Client[V] {

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := &Client[V]{
		rdb:       rdb,
		marshal:   marshal,
		unmarshal: unmarshal,
		saveChan:  make(chan redisEntity[V], chanSize),
		ttl:       ttl,
		done:      ctx.Done(),
	}

	//goroutine that saves elem async
	go client.runUpdater(ctx)

	return client
}

// Redis underlying client, shared with the warm-upper
func (c *Client[V]) Redis() *redis.Client {
	return c.rdb
}

func (c *Client[V]) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client[V]) Set(ctx context.Context, key string, value V, expiration time.Duration) error {
	strValue, err := c.marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, strValue, expiration).Err()
}

func (c *Client[V]) Get(ctx context.Context, key string) (V, error) {
	strValue, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		var zero V
		return zero, err
	}
	return c.unmarshal(strValue)
}

// async save
func (c *Client[V]) Update(keys []string, values []V) {
	for i := range values {
		entity := redisEntity[V]{
			key:   keys[i],
			value: values[i],
		}
		select {
		case c.saveChan <- entity:
		default:
			//if blocked do new goroutine
			go func(entity redisEntity[V]) {
				select {
				case c.saveChan <- entity:
				case <-c.done:
				}
			}(entity)
		}
	}
}

func (c *Client[V]) BatchGet(ctx context.Context, keys []string) ([]V, []string, error) {
	results, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, err
	}

	var res []V
	notFound := make([]string, 0)
	for i, r := range results {
		str, ok := r.(string)
		if !ok {
			notFound = append(notFound, keys[i])
			continue
		}
		val, err := c.unmarshal(str)
		if err != nil {
			log.Warn().Err(err).Str("key", keys[i]).Msg("couldn't unmarshal a cached value")
			notFound = append(notFound, keys[i])
			continue
		}
		res = append(res, val)
	}
	metrics.ObserveCache(tier, len(res), len(notFound))
	log.Debug().Int("hit", len(res)).Int("miss", len(notFound)).Msg("redis cache lookup")
	return res, notFound, nil
}

func (c *Client[V]) runUpdater(ctx context.Context) {
	for {
		select {
		case entity, ok := <-c.saveChan:
			if !ok {
				return
			}
			if err := c.Set(ctx, entity.key, entity.value, c.ttl); err != nil {
				log.Warn().Err(err).Str("key", entity.key).Msg("couldn't save to redis")
			}
		case <-ctx.Done():
			return
		}
	}
}
