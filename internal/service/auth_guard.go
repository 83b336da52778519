package service

import (
	"TagService/internal/logctx"
	"TagService/internal/metrics"
	"TagService/internal/model"
	"TagService/internal/notifier"
	"TagService/internal/ports"
	"TagService/internal/repository"
	"TagService/internal/security"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Notifier получает события сессии, которые стоит показать вне сервиса.
type Notifier interface {
	NotifyWebhook(ctx context.Context, event string, userUUID string, requestID string) error
}

// Decision - итог проверки запроса. Транспорт применяет его в одном месте:
// либо выставляет обе новые куки, либо очищает обе.
type Decision struct {
	Identity *model.Identity
	// Issued не пуст, если пара была выпущена ротацией.
	Issued *model.TokensPair
	// ClearCookies выставляется при любом отказе.
	ClearCookies bool
	// Err - причина отказа, всегда оборачивает ErrUnauthenticated.
	Err error
}

func (decision Decision) Allowed() bool {
	return decision.Err == nil
}

// AuthGuard проверяет access токен и при его невалидности прозрачно
// ротирует пару по refresh токену.
type AuthGuard struct {
	codec    ports.TokenCodec
	store    ports.RefreshStore
	notifier Notifier
	metrics  *metrics.Metrics

	notifications sync.WaitGroup
}

func NewAuthGuard(codec ports.TokenCodec, store ports.RefreshStore, notifier Notifier, metrics *metrics.Metrics) *AuthGuard {
	return &AuthGuard{
		codec:    codec,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
	}
}

func (guard *AuthGuard) Check(ctx context.Context, accessToken string, refreshToken string) (decision Decision) {
	const op = "service.AuthGuard.Check"

	// паника хранилища или кодека тоже отказ: куки должны быть очищены
	defer func() {
		if recovered := recover(); recovered != nil {
			decision = guard.deny(ctx, fmt.Errorf("%w: %s: паника: %v", ErrUnauthenticated, op, recovered))
		}
	}()

	if accessToken == "" {
		return guard.deny(ctx, ErrAccessTokenNotSet)
	}

	claims, err := guard.codec.Verify(accessToken)
	if err == nil && claims.Kind == security.KindAccess {
		identity := claims.Identity()
		guard.metrics.GuardDecision(metrics.OutcomeAllow, "")
		return Decision{Identity: &identity}
	}

	if refreshToken == "" {
		return guard.deny(ctx, ErrRefreshTokenNotSet)
	}

	refreshClaims, err := guard.codec.Verify(refreshToken)
	if err != nil || refreshClaims.Kind != security.KindRefresh {
		return guard.deny(ctx, ErrRefreshTokenNotValid)
	}

	user, err := guard.store.LookupUserByToken(ctx, refreshToken)
	if errors.Is(err, repository.ErrNotFound) {
		return guard.deny(ctx, ErrRefreshTokenNotValid)
	}
	if err != nil {
		return guard.deny(ctx, fmt.Errorf("%w: %s: поиск пользователя: %w", ErrUnauthenticated, op, err))
	}
	if refreshClaims.UserUUID != user.UUID {
		return guard.deny(ctx, ErrRefreshTokenNotValid)
	}

	identity := user.Identity()
	tokensPair, err := guard.codec.Create(identity)
	if err != nil {
		return guard.deny(ctx, fmt.Errorf("%w: %s: выпуск токенов: %w", ErrUnauthenticated, op, err))
	}

	err = guard.store.Rotate(ctx, user.UUID, refreshToken, tokensPair.RefreshToken, tokensPair.RefreshExpireAt)
	if errors.Is(err, repository.ErrTokenSuperseded) {
		guard.notifySuperseded(ctx, user.UUID)
		return guard.deny(ctx, ErrRefreshTokenSuperseded)
	}
	if err != nil {
		return guard.deny(ctx, fmt.Errorf("%w: %s: ротация refresh токена: %w", ErrUnauthenticated, op, err))
	}

	logctx.From(ctx).Info("refresh_rotated", slog.String("user_uuid", user.UUID))
	guard.metrics.GuardDecision(metrics.OutcomeRotated, "")

	return Decision{Identity: &identity, Issued: tokensPair}
}

// Wait дожидается отправки уведомлений, запущенных проверками.
func (guard *AuthGuard) Wait() {
	guard.notifications.Wait()
}

func (guard *AuthGuard) deny(ctx context.Context, reason error) Decision {
	label := denyLabel(reason)
	guard.metrics.GuardDecision(metrics.OutcomeDeny, label)

	logger := logctx.From(ctx)
	if label == "internal" {
		logger.Error("guard_deny", slog.String("reason", label), slog.Any("err", reason))
	} else {
		logger.Info("guard_deny", slog.String("reason", label))
	}

	return Decision{ClearCookies: true, Err: reason}
}

func (guard *AuthGuard) notifySuperseded(ctx context.Context, userUUID string) {
	logctx.From(ctx).Warn("refresh_token_superseded", slog.String("user_uuid", userUUID))
	if guard.notifier == nil {
		return
	}

	requestID := logctx.RequestID(ctx)
	notifyCtx := context.WithoutCancel(ctx)

	guard.notifications.Add(1)
	go func() {
		defer guard.notifications.Done()
		if err := guard.notifier.NotifyWebhook(notifyCtx, notifier.EventRefreshTokenSuperseded, userUUID, requestID); err != nil {
			logctx.From(notifyCtx).Error("webhook_failed", slog.Any("err", err))
		}
	}()
}

func denyLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrAccessTokenNotSet):
		return "access_not_set"
	case errors.Is(reason, ErrRefreshTokenNotSet):
		return "refresh_not_set"
	case errors.Is(reason, ErrRefreshTokenSuperseded):
		return "refresh_superseded"
	case errors.Is(reason, ErrRefreshTokenNotValid):
		return "refresh_not_valid"
	default:
		return "internal"
	}
}
