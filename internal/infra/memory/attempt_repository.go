package memory

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// AttemptRepository is an in-memory implementation of app.AttemptRepository.
// Referential integrity is enforced at write time: attempts for unknown users
// are rejected.
type AttemptRepository struct {
	users *UserRepository

	mu       sync.RWMutex
	nextID   int64
	attempts []domain.Attempt
}

func NewAttemptRepository(users *UserRepository) *AttemptRepository {
	return &AttemptRepository{users: users, nextID: 1}
}

func (r *AttemptRepository) CreateAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	if _, err := r.users.UserByID(ctx, attempt.UserID); err != nil {
		return domain.Attempt{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = r.nextID
	r.nextID++
	r.attempts = append(r.attempts, attempt)
	return attempt, nil
}

func (r *AttemptRepository) AttemptsByUser(_ context.Context, userID int64) ([]domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Attempt
	for _, attempt := range r.attempts {
		if attempt.UserID == userID {
			result = append(result, attempt)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

type userBest struct {
	userID     int64
	maxScore   int
	achievedAt time.Time
}

// BestScores groups attempts by user, keeps each user's maximum score, ranks
// descending (ties broken by who reached the score earlier, then username)
// and resolves display identity. A dangling user reference is logged and
// skipped rather than failing the whole view.
func (r *AttemptRepository) BestScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	r.mu.RLock()
	best := make(map[int64]userBest)
	for _, attempt := range r.attempts {
		current, ok := best[attempt.UserID]
		if !ok || attempt.Score > current.maxScore ||
			(attempt.Score == current.maxScore && attempt.CreatedAt.Before(current.achievedAt)) {
			best[attempt.UserID] = userBest{
				userID:     attempt.UserID,
				maxScore:   attempt.Score,
				achievedAt: attempt.CreatedAt,
			}
		}
	}
	r.mu.RUnlock()

	ranked := make([]userBest, 0, len(best))
	for _, b := range best {
		ranked = append(ranked, b)
	}

	usernames := make(map[int64]string, len(ranked))
	entries := make([]domain.LeaderboardEntry, 0, limit)
	for _, b := range ranked {
		user, err := r.users.UserByID(ctx, b.userID)
		if err != nil {
			log.Printf("leaderboard: dropping attempt for unknown user %d: %v", b.userID, err)
			continue
		}
		usernames[b.userID] = user.Username
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].maxScore != ranked[j].maxScore {
			return ranked[i].maxScore > ranked[j].maxScore
		}
		if !ranked[i].achievedAt.Equal(ranked[j].achievedAt) {
			return ranked[i].achievedAt.Before(ranked[j].achievedAt)
		}
		return usernames[ranked[i].userID] < usernames[ranked[j].userID]
	})

	for _, b := range ranked {
		username, ok := usernames[b.userID]
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{Username: username, MaxScore: b.maxScore})
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}
