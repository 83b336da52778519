// Package memory - реализации хранилищ в памяти процесса (driver: memory).
// Используются для локального запуска без postgres и в тестах.
package memory

import (
	"TagService/internal/model"
	"TagService/internal/repository"
	"TagService/internal/security"
	"context"
	"fmt"
	"sync"
	"time"
)

// RefreshStore хранит одну запись на пользователя и обратный индекс отпечаток -> пользователь.
type RefreshStore struct {
	mu      sync.Mutex
	records map[string]model.RefreshToken
	owners  map[string]string
	users   *UserRepository
	now     func() time.Time
}

func NewRefreshStore(users *UserRepository) *RefreshStore {
	return &RefreshStore{
		records: make(map[string]model.RefreshToken),
		owners:  make(map[string]string),
		users:   users,
		now:     time.Now,
	}
}

func (store *RefreshStore) Save(_ context.Context, userUUID string, refreshToken string, expireAt time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.put(userUUID, security.Fingerprint(refreshToken), expireAt)
	return nil
}

func (store *RefreshStore) LookupUserByToken(ctx context.Context, refreshToken string) (*model.User, error) {
	const op = "memory.RefreshStore.LookupUserByToken"

	store.mu.Lock()
	userUUID, ok := store.owners[security.Fingerprint(refreshToken)]
	record := store.records[userUUID]
	store.mu.Unlock()

	if !ok || !record.ExpireAt.After(store.now()) {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	user, err := store.users.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (store *RefreshStore) Rotate(_ context.Context, userUUID string, oldToken string, newToken string, expireAt time.Time) error {
	const op = "memory.RefreshStore.Rotate"

	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.records[userUUID]
	if !ok || record.TokenHash != security.Fingerprint(oldToken) {
		return fmt.Errorf("%s: %w", op, repository.ErrTokenSuperseded)
	}

	store.put(userUUID, security.Fingerprint(newToken), expireAt)
	return nil
}

func (store *RefreshStore) Delete(_ context.Context, userUUID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if record, ok := store.records[userUUID]; ok {
		delete(store.owners, record.TokenHash)
		delete(store.records, userUUID)
	}

	return nil
}

func (store *RefreshStore) DeleteExpired(_ context.Context, now time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for userUUID, record := range store.records {
		if !record.ExpireAt.After(now) {
			delete(store.owners, record.TokenHash)
			delete(store.records, userUUID)
		}
	}

	return nil
}

// put вызывается под мьютексом.
func (store *RefreshStore) put(userUUID string, tokenHash string, expireAt time.Time) {
	if previous, ok := store.records[userUUID]; ok {
		delete(store.owners, previous.TokenHash)
	}

	store.records[userUUID] = model.RefreshToken{
		UserUUID:  userUUID,
		TokenHash: tokenHash,
		ExpireAt:  expireAt,
		UpdatedAt: store.now(),
	}
	store.owners[tokenHash] = userUUID
}
