package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

// DefaultPoolSize is how many questions one upstream pull stockpiles per
// difficulty.
const DefaultPoolSize = 50

// QuestionCache keeps a per-difficulty pool of raw questions with TTL to
// avoid hammering the upstream source, and samples the requested amount from
// the pool on each fetch. Requests larger than the pool bypass the cache.
type QuestionCache struct {
	upstream app.QuestionSource
	ttl      time.Duration
	poolSize int
	clock    func() time.Time
	sf       singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	pools map[string]cachedPool
}

type cachedPool struct {
	questions []domain.RawQuestion
	expiresAt time.Time
}

func NewQuestionCache(upstream app.QuestionSource, ttl time.Duration, poolSize int) *QuestionCache {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	return &QuestionCache{
		upstream: upstream,
		ttl:      ttl,
		poolSize: poolSize,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		pools:    make(map[string]cachedPool),
	}
}

func (c *QuestionCache) Fetch(ctx context.Context, amount int, difficulty string) ([]domain.RawQuestion, error) {
	if amount > c.poolSize {
		return c.upstream.Fetch(ctx, amount, difficulty)
	}

	now := c.clock()

	c.mu.RLock()
	if pool, ok := c.pools[difficulty]; ok && pool.expiresAt.After(now) && len(pool.questions) >= amount {
		c.mu.RUnlock()
		return c.sample(pool.questions, amount), nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(difficulty, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if pool, ok := c.pools[difficulty]; ok && pool.expiresAt.After(now) && len(pool.questions) >= amount {
			c.mu.RUnlock()
			return pool.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.upstream.Fetch(ctx, c.poolSize, difficulty)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.pools[difficulty] = cachedPool{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
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

// sample picks amount distinct questions from the pool in random order.
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
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
