package memory

import (
	"context"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

func TestQuestionCachePoolsUpstream(t *testing.T) {
	upstream := &countingSource{source: NewStaticQuestionSource(sampleRawQuestions(50))}
	cache := NewQuestionCache(upstream, time.Minute, 50)

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

	if _, err := cache.Fetch(context.Background(), 10, "easy"); err != nil {
		t.Fatalf("fetch 2: %v", err)
	}
	if upstream.calls != 1 {
		t.Fatalf("expected cache hit, upstream calls %d", upstream.calls)
	}

	// A different difficulty is a separate pool.
	if _, err := cache.Fetch(context.Background(), 10, "hard"); err != nil {
		t.Fatalf("fetch hard: %v", err)
	}
	if upstream.calls != 2 {
		t.Fatalf("expected second pull for new difficulty, got %d", upstream.calls)
	}
}

func TestQuestionCacheBypassForOversizedRequests(t *testing.T) {
	upstream := &countingSource{source: NewStaticQuestionSource(sampleRawQuestions(100))}
	cache := NewQuestionCache(upstream, time.Minute, 20)

	questions, err := cache.Fetch(context.Background(), 60, "easy")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 60 {
		t.Fatalf("expected passthrough of 60 questions, got %d", len(questions))
	}
	if upstream.calls != 1 {
		t.Fatalf("expected direct upstream call, got %d", upstream.calls)
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	upstream := &countingSource{source: NewStaticQuestionSource(sampleRawQuestions(50))}
	cache := NewQuestionCache(upstream, time.Minute, 50)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.Fetch(context.Background(), 10, "easy"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	now = now.Add(2 * time.Minute) // past TTL plus jitter
	if _, err := cache.Fetch(context.Background(), 10, "easy"); err != nil {
		t.Fatalf("fetch after expiry: %v", err)
	}
	if upstream.calls != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", upstream.calls)
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
