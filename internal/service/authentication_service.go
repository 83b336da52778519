package service

import (
	"TagService/internal/logctx"
	"TagService/internal/model"
	"TagService/internal/ports"
	"TagService/internal/repository"
	"TagService/internal/security"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type AuthenticationService struct {
	users ports.UserRepository
	store ports.RefreshStore
	codec ports.TokenCodec
	now   func() time.Time
}

func NewAuthenticationService(users ports.UserRepository, store ports.RefreshStore, codec ports.TokenCodec) *AuthenticationService {
	return &AuthenticationService{
		users: users,
		store: store,
		codec: codec,
		now:   time.Now,
	}
}

// Login проверяет пароль и выпускает новую пару. Сохранение refresh токена
// вытесняет все прежние сессии пользователя.
func (service *AuthenticationService) Login(ctx context.Context, email string, password string) (*model.Identity, *model.TokensPair, error) {
	const op = "service.AuthenticationService.Login"

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := service.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	identity := user.Identity()
	tokensPair, err := service.codec.Create(identity)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: ошибка генерации токенов: %w", op, err)
	}

	if err := service.store.Save(ctx, user.UUID, tokensPair.RefreshToken, tokensPair.RefreshExpireAt); err != nil {
		return nil, nil, fmt.Errorf("%s: не удалось сохранить рефреш токен: %w", op, err)
	}

	logctx.From(ctx).Info("user_logged_in", slog.String("user_uuid", user.UUID))

	return &identity, tokensPair, nil
}

// Logout удаляет refresh токен пользователя.
func (service *AuthenticationService) Logout(ctx context.Context, userUUID string) error {
	const op = "service.AuthenticationService.Logout"

	if err := service.store.Delete(ctx, userUUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("user_logged_out", slog.String("user_uuid", userUUID))
	return nil
}

// Me возвращает актуальные данные пользователя по идентичности из токена.
func (service *AuthenticationService) Me(ctx context.Context, identity model.Identity) (*model.Identity, error) {
	const op = "service.AuthenticationService.Me"

	user, err := service.users.FindByUUID(ctx, identity.UserUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current := user.Identity()
	return &current, nil
}

// StartRefreshJanitor периодически удаляет истекшие refresh токены, пока жив ctx.
func (service *AuthenticationService) StartRefreshJanitor(ctx context.Context, period time.Duration) {
	if period <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := service.store.DeleteExpired(ctx, service.now().UTC()); err != nil {
					logctx.From(ctx).Error("refresh_janitor_failed", slog.Any("err", err))
				}
			}
		}
	}()
}
