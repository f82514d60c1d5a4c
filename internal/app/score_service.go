package app

import (
	"context"
	"math"
	"time"

	"trivia-quiz-service/internal/domain"
)

// LeaderboardSize caps the ranked view at the top ten users.
const LeaderboardSize = 10

// AttemptRepository persists immutable quiz attempts and serves the read
// views derived from them.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
	AttemptsByUser(ctx context.Context, userID int64) ([]domain.Attempt, error)
	// BestScores returns each user's maximum score with display identity
	// resolved, ranked descending, at most limit entries.
	BestScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// UserRepository reads and writes identity records.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
}

// ScoreService covers score recording, leaderboard aggregation and profile
// history.
type ScoreService struct {
	attempts AttemptRepository
	users    UserRepository
	feed     *LeaderboardFeed
	now      func() time.Time
}

func NewScoreService(attempts AttemptRepository, users UserRepository, feed *LeaderboardFeed) *ScoreService {
	return &ScoreService{attempts: attempts, users: users, feed: feed, now: time.Now}
}

// NewScoreServiceWithClock is test-only for deterministic timestamps.
func NewScoreServiceWithClock(attempts AttemptRepository, users UserRepository, feed *LeaderboardFeed, now func() time.Time) *ScoreService {
	return &ScoreService{attempts: attempts, users: users, feed: feed, now: now}
}

// SubmitScore validates and persists one completed quiz attempt. The
// timestamp is server-assigned; any client-supplied date is ignored.
// totalQuestions falls back to the default question count when absent or
// zero. There is no upper bound on score relative to totalQuestions.
func (s *ScoreService) SubmitScore(ctx context.Context, userID int64, score float64, totalQuestions int) (domain.Attempt, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return domain.Attempt{}, domain.ErrInvalidScore
	}
	if totalQuestions <= 0 {
		totalQuestions = DefaultQuestionCount
	}

	attempt := domain.Attempt{
		UserID:         userID,
		Score:          int(score),
		TotalQuestions: totalQuestions,
		CreatedAt:      s.now().UTC(),
	}
	stored, err := s.attempts.CreateAttempt(ctx, attempt)
	if err != nil {
		return domain.Attempt{}, err
	}

	s.notifyFeed(ctx)
	return stored, nil
}

// Leaderboard computes the ranked top-N view fresh on every call.
func (s *ScoreService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	entries, err := s.attempts.BestScores(ctx, LeaderboardSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

// Profile returns the caller's own identity and attempt history, most recent
// first. An empty history is a valid result.
func (s *ScoreService) Profile(ctx context.Context, userID int64) (domain.Profile, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	attempts, err := s.attempts.AttemptsByUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if attempts == nil {
		attempts = []domain.Attempt{}
	}
	return domain.Profile{User: user, Attempts: attempts}, nil
}

// notifyFeed pushes a fresh leaderboard snapshot to live subscribers after a
// successful save. Best effort: feed errors never fail the submission.
func (s *ScoreService) notifyFeed(ctx context.Context) {
	if s.feed == nil || !s.feed.HasSubscribers() {
		return
	}
	entries, err := s.attempts.BestScores(ctx, LeaderboardSize)
	if err != nil {
		return
	}
	s.feed.Publish(entries)
}
