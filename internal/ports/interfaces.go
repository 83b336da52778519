package ports

import (
	"TagService/internal/model"
	"TagService/internal/security"
	"context"
	"time"
)

// TokenCodec выпускает и проверяет токены.
type TokenCodec interface {
	Create(identity model.Identity) (*model.TokensPair, error)
	Verify(token string) (*security.Claims, error)
}

// RefreshStore хранит не более одного действующего refresh токена на пользователя.
type RefreshStore interface {
	// Save безусловно заменяет запись пользователя.
	Save(ctx context.Context, userUUID string, refreshToken string, expireAt time.Time) error
	// LookupUserByToken находит владельца токена. Нет записи - repository.ErrNotFound.
	LookupUserByToken(ctx context.Context, refreshToken string) (*model.User, error)
	// Rotate заменяет запись, только если она все еще хранит oldToken.
	// Иначе repository.ErrTokenSuperseded.
	Rotate(ctx context.Context, userUUID string, oldToken string, newToken string, expireAt time.Time) error
	Delete(ctx context.Context, userUUID string) error
	DeleteExpired(ctx context.Context, now time.Time) error
}

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUUID(ctx context.Context, userUUID string) (*model.User, error)
}

type TagRepository interface {
	Create(ctx context.Context, creatorUUID string, data model.TagCreate) (*model.Tag, error)
	GetByID(ctx context.Context, id int64) (*model.Tag, error)
	GetByName(ctx context.Context, name string) (*model.Tag, error)
	GetSorted(ctx context.Context, query model.TagQuery) ([]model.Tag, error)
	Update(ctx context.Context, tag *model.Tag, data model.TagUpdate) (*model.TagUpdateResult, error)
	Delete(ctx context.Context, id int64) error
	UserTags(ctx context.Context, userUUID string) ([]model.UserTag, error)
}

// ResponseCache - key/value хранилище закэшированных ответов. Без автоматического истечения.
type ResponseCache interface {
	// Get возвращает cache.ErrCacheMiss, если ключа нет.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
