package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// QuestionCache keeps per-difficulty question pools in Redis and falls back
// to the upstream source on cache miss. Pools are stored as:
//
//	SET trivia:{difficulty}:pool {json array of raw questions} EX ttl
//
// The requested amount is sampled from the pool on each fetch, so repeated
// quiz requests within the TTL still vary.
type QuestionCache struct {
	client   *redis.Client
	upstream app.QuestionSource
	ttl      time.Duration
	poolSize int
	sf       singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, upstream app.QuestionSource, ttl time.Duration, poolSize int) *QuestionCache {
	if poolSize <= 0 {
		poolSize = 50
	}
	return &QuestionCache{
		client:   client,
		upstream: upstream,
		ttl:      ttl,
		poolSize: poolSize,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) Fetch(ctx context.Context, amount int, difficulty string) ([]domain.RawQuestion, error) {
	if amount > c.poolSize {
		return c.upstream.Fetch(ctx, amount, difficulty)
	}

	key := c.poolKey(difficulty)
	if pool, ok := c.readPool(ctx, key, amount); ok {
		return c.sample(pool, amount), nil
	}

	result, err, _ := c.sf.Do(difficulty, func() (interface{}, error) {
		// Re-check in case another goroutine filled the pool.
		if pool, ok := c.readPool(ctx, key, amount); ok {
			return pool, nil
		}

		pool, err := c.upstream.Fetch(ctx, c.poolSize, difficulty)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(pool); err == nil {
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}

	pool := result.([]domain.RawQuestion)
	if amount > len(pool) {
		amount = len(pool)
	}
	return c.sample(pool, amount), nil
}

func (c *QuestionCache) poolKey(difficulty string) string {
	return "trivia:" + difficulty + ":pool"
}

func (c *QuestionCache) readPool(ctx context.Context, key string, amount int) ([]domain.RawQuestion, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.RawQuestion
	if err := json.Unmarshal(data, &pool); err != nil || len(pool) < amount {
		return nil, false
	}
	return pool, true
}

func (c *QuestionCache) sample(pool []domain.RawQuestion, amount int) []domain.RawQuestion {
	c.rndMu.Lock()
	indexes := c.rnd.Perm(len(pool))
	c.rndMu.Unlock()

	result := make([]domain.RawQuestion, 0, amount)
	for _, idx := range indexes[:amount] {
		result = append(result, pool[idx])
	}
	return result
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
