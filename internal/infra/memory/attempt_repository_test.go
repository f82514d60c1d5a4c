package memory

import (
	"context"
	"testing"
	"time"

	"trivia-quiz-service/internal/domain"
)

func TestCreateAttemptEnforcesUserExists(t *testing.T) {
	users := NewUserRepository()
	attempts := NewAttemptRepository(users)

	_, err := attempts.CreateAttempt(context.Background(), domain.Attempt{UserID: 99, Score: 5})
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for dangling attempt, got %v", err)
	}
}

func TestBestScoresStableUnderConcurrentWrites(t *testing.T) {
	users := NewUserRepository()
	attempts := NewAttemptRepository(users)
	ctx := context.Background()

	user, err := users.CreateUser(ctx, domain.User{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_, _ = attempts.CreateAttempt(ctx, domain.Attempt{
				UserID:    user.ID,
				Score:     i,
				CreatedAt: time.Now(),
			})
		}
	}()

	// Aggregation must tolerate inserts happening mid-read; staleness is fine,
	// corruption is not.
	for i := 0; i < 50; i++ {
		entries, err := attempts.BestScores(ctx, 10)
		if err != nil {
			t.Fatalf("best scores: %v", err)
		}
		if len(entries) > 1 {
			t.Fatalf("single user produced %d entries", len(entries))
		}
	}
	<-done

	entries, err := attempts.BestScores(ctx, 10)
	if err != nil {
		t.Fatalf("best scores: %v", err)
	}
	if len(entries) != 1 || entries[0].MaxScore != 99 {
		t.Fatalf("expected final max 99, got %+v", entries)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	users := NewUserRepository()
	ctx := context.Background()

	if _, err := users.CreateUser(ctx, domain.User{Username: "a", Email: "same@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := users.CreateUser(ctx, domain.User{Username: "b", Email: "Same@Example.com"}); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
