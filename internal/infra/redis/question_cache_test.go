package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{source: memory.NewStaticQuestionSource(sampleRawQuestions(50))}
	cache := NewQuestionCache(client, upstream, time.Minute, 50)

	questions, err := cache.Fetch(context.Background(), 10, "easy")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(questions))
	}
	if upstream.calls != 1 {
		t.Fatalf("expected one upstream pull, got %d", upstream.calls)
	}

	// Second call must be served from Redis.
	if _, err := cache.Fetch(context.Background(), 10, "easy"); err != nil {
		t.Fatalf("fetch 2: %v", err)
	}
	if upstream.calls != 1 {
		t.Fatalf("expected redis hit, upstream calls %d", upstream.calls)
	}

	if !mr.Exists("trivia:easy:pool") {
		t.Fatalf("expected pool key in redis")
	}
}

func TestQuestionCacheRefetchesAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	upstream := &countingSource{source: memory.NewStaticQuestionSource(sampleRawQuestions(50))}
	cache := NewQuestionCache(client, upstream, time.Minute, 50)

	if _, err := cache.Fetch(context.Background(), 10, "easy"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := cache.Fetch(context.Background(), 10, "easy"); err != nil {
		t.Fatalf("fetch after expiry: %v", err)
	}
	if upstream.calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d calls", upstream.calls)
	}
}

type countingSource struct {
	source app.QuestionSource
	calls  int
}

func (s *countingSource) Fetch(ctx context.Context, amount int, difficulty string) ([]domain.RawQuestion, error) {
	s.calls++
	return s.source.Fetch(ctx, amount, difficulty)
}

func sampleRawQuestions(n int) []domain.RawQuestion {
	questions := make([]domain.RawQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, domain.RawQuestion{
			Question:         "question",
			CorrectAnswer:    "correct",
			IncorrectAnswers: []string{"wrong1", "wrong2", "wrong3"},
		})
	}
	return questions
}
