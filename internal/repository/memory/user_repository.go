package memory

import (
	"TagService/internal/model"
	"TagService/internal/repository"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type UserRepository struct {
	mu      sync.RWMutex
	byUUID  map[string]model.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byUUID:  make(map[string]model.User),
		byEmail: make(map[string]string),
	}
}

// Add заводит пользователя. Регистрации через API нет, пользователи поставляются снаружи.
func (store *UserRepository) Add(user model.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, ok := store.byEmail[email]; ok {
		return fmt.Errorf("memory.UserRepository.Add: %w", repository.ErrAlreadyExists)
	}

	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	store.byUUID[user.UUID] = user
	store.byEmail[email] = user.UUID
	return nil
}

func (store *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	userUUID, ok := store.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("memory.UserRepository.FindByEmail: %w", repository.ErrNotFound)
	}

	user := store.byUUID[userUUID]
	return &user, nil
}

func (store *UserRepository) FindByUUID(_ context.Context, userUUID string) (*model.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	user, ok := store.byUUID[userUUID]
	if !ok {
		return nil, fmt.Errorf("memory.UserRepository.FindByUUID: %w", repository.ErrNotFound)
	}

	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
