package server

import (
	"TagService/config"
	"TagService/internal"
	"TagService/internal/cache"
	"TagService/internal/model"
	"TagService/internal/ports"
	"TagService/internal/repository"
	"TagService/internal/repository/memory"
	"TagService/internal/security"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Storage - хранилища, выбранные по database.driver.
type Storage struct {
	Users   ports.UserRepository
	Tags    ports.TagRepository
	Refresh ports.RefreshStore
	// Ping проверяет доступность хранилища, nil для memory.
	Ping  func(ctx context.Context) error
	Close func() error
}

// ResponseCache - кэш ответов, выбранный по cache.driver.
type ResponseCache struct {
	ports.ResponseCache
	Ping  func(ctx context.Context) error
	Close func() error
}

func SetupStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case "memory":
		return setupMemoryStorage(cfg.SeedUser)
	default:
		return setupPostgresStorage(ctx, cfg)
	}
}

func setupPostgresStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	database, err := internal.NewDatabaseConnection(ctx, cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения: %w", err)
	}

	if err := database.Migrate(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ошибка миграции: %w", err)
	}

	return &Storage{
		Users:   repository.NewUserRepository(database),
		Tags:    repository.NewTagRepository(database),
		Refresh: repository.NewJWTRepository(database),
		Ping:    database.PingContext,
		Close:   database.Close,
	}, nil
}

func setupMemoryStorage(seed config.SeedConfig) (*Storage, error) {
	users := memory.NewUserRepository()

	if seed.Email != "" {
		hash, err := security.HashPassword(seed.Password)
		if err != nil {
			return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
		}

		user := model.User{
			UUID:         uuid.NewString(),
			Email:        seed.Email,
			Nickname:     seed.Nickname,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.Add(user); err != nil {
			return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
		}
		slog.Info("memory_user_seeded", slog.String("email", user.Email), slog.String("user_uuid", user.UUID))
	}

	slog.Warn("memory_storage_enabled")

	return &Storage{
		Users:   users,
		Tags:    memory.NewTagRepository(users),
		Refresh: memory.NewRefreshStore(users),
		Close:   func() error { return nil },
	}, nil
}

func SetupCache(ctx context.Context, cfg config.CacheConfig) (*ResponseCache, error) {
	if cfg.Driver != "redis" {
		return &ResponseCache{
			ResponseCache: cache.NewMemoryCache(),
			Close:         func() error { return nil },
		}, nil
	}

	redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix)
	if err != nil {
		return nil, err
	}

	return &ResponseCache{
		ResponseCache: redisCache,
		Ping:          redisCache.Ping,
		Close:         redisCache.Close,
	}, nil
}

func SetupServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
