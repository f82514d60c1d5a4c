package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz-service/internal/domain"
)

// Store implements app.UserRepository and app.AttemptRepository on Postgres.
// Attempts carry a foreign key to users, so referential integrity is enforced
// at write time and the leaderboard join can never dangle.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.userBy(ctx, `SELECT id, username, email, password_hash FROM users WHERE id=$1`, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.userBy(ctx, `SELECT id, username, email, password_hash FROM users WHERE lower(email)=lower($1)`, email)
}

func (s *Store) userBy(ctx context.Context, query string, arg interface{}) (domain.User, error) {
	var user domain.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *Store) CreateAttempt(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, score, total_questions, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		attempt.UserID, attempt.Score, attempt.TotalQuestions, attempt.CreatedAt,
	).Scan(&attempt.ID)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("create attempt: %w", err)
	}
	return attempt, nil
}

func (s *Store) AttemptsByUser(ctx context.Context, userID int64) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, score, total_questions, created_at
		   FROM attempts WHERE user_id=$1
		  ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.Score, &a.TotalQuestions, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// BestScores ranks users by their single best attempt, descending. Ties go to
// whoever reached the score first, then alphabetically by username.
func (s *Store) BestScores(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT u.username, ranked.max_score
		   FROM (
		        SELECT user_id, score AS max_score, created_at AS achieved_at,
		               ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY score DESC, created_at ASC) AS rn
		          FROM attempts
		   ) ranked
		   JOIN users u ON u.id = ranked.user_id
		  WHERE ranked.rn = 1
		  ORDER BY ranked.max_score DESC, ranked.achieved_at ASC, u.username ASC
		  LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.MaxScore); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
