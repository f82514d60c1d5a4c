package memory

import (
	"context"
	"strings"
	"sync"

	"trivia-quiz-service/internal/domain"
)

// UserRepository is an in-memory implementation of app.UserRepository.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		nextID:  1,
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepository) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return domain.User{}, domain.ErrEmailTaken
	}

	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = user
	r.byEmail[key] = user.ID
	return user, nil
}

func (r *UserRepository) UserByID(_ context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) UserByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.byID[id], nil
}
