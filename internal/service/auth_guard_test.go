package service

import (
	"TagService/internal/model"
	"TagService/internal/notifier"
	"TagService/internal/repository"
	"TagService/internal/repository/memory"
	"TagService/internal/security"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var testUser = model.User{
	UUID:     "6f1c1f8e-8f51-4a52-9d83-0f6d3c7f5a01",
	Email:    "u1@example.com",
	Nickname: "u1",
}

type guardFixture struct {
	guard *AuthGuard
	store *memory.RefreshStore
	codec *security.JWTCodec
}

// newGuardFixture собирает guard над in-memory хранилищем. Кодек guard'а
// выпускает уже истекшие access токены, поэтому каждая успешная проверка
// по refresh токену приводит к ротации.
func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	users := memory.NewUserRepository()
	require.NoError(t, users.Add(testUser))

	store := memory.NewRefreshStore(users)
	codec := security.NewJWTCodec(testSecret, -time.Minute, time.Hour, "tag-service")

	return &guardFixture{
		guard: NewAuthGuard(codec, store, nil, nil),
		store: store,
		codec: codec,
	}
}

// login выпускает пару с истекшим access токеном и сохраняет refresh токен.
func (fixture *guardFixture) login(t *testing.T) *model.TokensPair {
	t.Helper()

	tokensPair, err := fixture.codec.Create(testUser.Identity())
	require.NoError(t, err)
	require.NoError(t, fixture.store.Save(context.Background(), testUser.UUID, tokensPair.RefreshToken, tokensPair.RefreshExpireAt))

	return tokensPair
}

func assertDenied(t *testing.T, decision Decision, reason error) {
	t.Helper()

	assert.False(t, decision.Allowed())
	assert.ErrorIs(t, decision.Err, reason)
	assert.ErrorIs(t, decision.Err, ErrUnauthenticated)
	assert.True(t, decision.ClearCookies)
	assert.Nil(t, decision.Issued)
	assert.Nil(t, decision.Identity)
}

func TestAuthGuard_ValidAccessSkipsStore(t *testing.T) {
	store := new(MockRefreshStore)
	codec := security.NewJWTCodec(testSecret, 15*time.Minute, time.Hour, "tag-service")
	guard := NewAuthGuard(codec, store, nil, nil)

	tokensPair, err := codec.Create(testUser.Identity())
	require.NoError(t, err)

	decision := guard.Check(context.Background(), tokensPair.AccessToken, "")

	require.True(t, decision.Allowed())
	assert.Equal(t, testUser.Identity(), *decision.Identity)
	assert.Nil(t, decision.Issued)
	assert.False(t, decision.ClearCookies)
	store.AssertNotCalled(t, "LookupUserByToken", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthGuard_RefreshTokenIsNotAccess(t *testing.T) {
	store := new(MockRefreshStore)
	codec := security.NewJWTCodec(testSecret, 15*time.Minute, time.Hour, "tag-service")
	guard := NewAuthGuard(codec, store, nil, nil)

	tokensPair, err := codec.Create(testUser.Identity())
	require.NoError(t, err)

	decision := guard.Check(context.Background(), tokensPair.RefreshToken, "")
	assertDenied(t, decision, ErrRefreshTokenNotSet)

	decision = guard.Check(context.Background(), "expired", tokensPair.AccessToken)
	assertDenied(t, decision, ErrRefreshTokenNotValid)
	store.AssertNotCalled(t, "LookupUserByToken", mock.Anything, mock.Anything)
}

func TestAuthGuard_AccessNotSet(t *testing.T) {
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	decision := fixture.guard.Check(context.Background(), "", tokensPair.RefreshToken)

	assertDenied(t, decision, ErrAccessTokenNotSet)
}

func TestAuthGuard_RefreshNotSet(t *testing.T) {
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	decision := fixture.guard.Check(context.Background(), tokensPair.AccessToken, "")

	assertDenied(t, decision, ErrRefreshTokenNotSet)
}

func TestAuthGuard_MalformedAccessFallsBackToRefresh(t *testing.T) {
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	decision := fixture.guard.Check(context.Background(), "not-a-jwt", tokensPair.RefreshToken)

	require.True(t, decision.Allowed())
	require.NotNil(t, decision.Issued)
}

func TestAuthGuard_RefreshNotValid(t *testing.T) {
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	foreign := security.NewJWTCodec("other-secret", time.Minute, time.Hour, "tag-service")
	foreignPair, err := foreign.Create(testUser.Identity())
	require.NoError(t, err)

	for name, refreshToken := range map[string]string{
		"malformed":    "garbage",
		"wrong secret": foreignPair.RefreshToken,
	} {
		t.Run(name, func(t *testing.T) {
			decision := fixture.guard.Check(context.Background(), tokensPair.AccessToken, refreshToken)
			assertDenied(t, decision, ErrRefreshTokenNotValid)
		})
	}
}

func TestAuthGuard_RefreshUnknownToStore(t *testing.T) {
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	unsaved, err := fixture.codec.Create(testUser.Identity())
	require.NoError(t, err)

	decision := fixture.guard.Check(context.Background(), tokensPair.AccessToken, unsaved.RefreshToken)

	assertDenied(t, decision, ErrRefreshTokenNotValid)
}

func TestAuthGuard_RotatesPair(t *testing.T) {
	ctx := context.Background()
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	decision := fixture.guard.Check(ctx, tokensPair.AccessToken, tokensPair.RefreshToken)

	require.True(t, decision.Allowed())
	require.NotNil(t, decision.Issued)
	assert.False(t, decision.ClearCookies)
	assert.Equal(t, testUser.Identity(), *decision.Identity)
	assert.NotEqual(t, tokensPair.RefreshToken, decision.Issued.RefreshToken)
	assert.NotEqual(t, tokensPair.AccessToken, decision.Issued.AccessToken)

	user, err := fixture.store.LookupUserByToken(ctx, decision.Issued.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.UUID, user.UUID)

	_, err = fixture.store.LookupUserByToken(ctx, tokensPair.RefreshToken)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthGuard_RotatedRefreshCannotBeReused(t *testing.T) {
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	first := fixture.guard.Check(context.Background(), tokensPair.AccessToken, tokensPair.RefreshToken)
	require.True(t, first.Allowed())

	second := fixture.guard.Check(context.Background(), tokensPair.AccessToken, tokensPair.RefreshToken)
	assertDenied(t, second, ErrRefreshTokenNotValid)

	third := fixture.guard.Check(context.Background(), first.Issued.AccessToken, first.Issued.RefreshToken)
	assert.True(t, third.Allowed())
}

func TestAuthGuard_ConcurrentRotationsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	fixture := newGuardFixture(t)
	tokensPair := fixture.login(t)

	const attempts = 2
	decisions := make([]Decision, attempts)

	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			start.Wait()
			decisions[i] = fixture.guard.Check(ctx, tokensPair.AccessToken, tokensPair.RefreshToken)
		}(i)
	}
	start.Done()
	done.Wait()

	allowed := 0
	for _, decision := range decisions {
		if !decision.Allowed() {
			assert.True(t, decision.ClearCookies)
			continue
		}
		allowed++

		user, err := fixture.store.LookupUserByToken(ctx, decision.Issued.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, testUser.UUID, user.UUID)
	}
	assert.Equal(t, 1, allowed)
}

func TestAuthGuard_LostRotationNotifies(t *testing.T) {
	ctx := context.Background()
	codec := security.NewJWTCodec(testSecret, -time.Minute, time.Hour, "tag-service")
	tokensPair, err := codec.Create(testUser.Identity())
	require.NoError(t, err)

	user := testUser
	store := new(MockRefreshStore)
	store.On("LookupUserByToken", mock.Anything, tokensPair.RefreshToken).Return(&user, nil)
	store.On("Rotate", mock.Anything, testUser.UUID, tokensPair.RefreshToken, mock.Anything, mock.Anything).
		Return(repository.ErrTokenSuperseded)

	webhook := new(MockNotifier)
	webhook.On("NotifyWebhook", mock.Anything, notifier.EventRefreshTokenSuperseded, testUser.UUID, mock.Anything).
		Return(nil)

	guard := NewAuthGuard(codec, store, webhook, nil)
	decision := guard.Check(ctx, tokensPair.AccessToken, tokensPair.RefreshToken)
	guard.Wait()

	assertDenied(t, decision, ErrRefreshTokenSuperseded)
	assert.ErrorIs(t, decision.Err, ErrRefreshTokenNotValid)
	store.AssertExpectations(t)
	webhook.AssertExpectations(t)
}

func TestAuthGuard_StoreFailureDenies(t *testing.T) {
	codec := security.NewJWTCodec(testSecret, -time.Minute, time.Hour, "tag-service")
	tokensPair, err := codec.Create(testUser.Identity())
	require.NoError(t, err)

	store := new(MockRefreshStore)
	store.On("LookupUserByToken", mock.Anything, tokensPair.RefreshToken).
		Return(nil, errors.New("connection reset"))

	decision := NewAuthGuard(codec, store, nil, nil).Check(context.Background(), tokensPair.AccessToken, tokensPair.RefreshToken)

	assertDenied(t, decision, ErrUnauthenticated)
	assert.Equal(t, "internal", denyLabel(decision.Err))
	store.AssertNotCalled(t, "Rotate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthGuard_RefreshOfAnotherUser(t *testing.T) {
	codec := security.NewJWTCodec(testSecret, -time.Minute, time.Hour, "tag-service")
	tokensPair, err := codec.Create(testUser.Identity())
	require.NoError(t, err)

	other := model.User{UUID: "someone-else", Email: "u2@example.com"}
	store := new(MockRefreshStore)
	store.On("LookupUserByToken", mock.Anything, tokensPair.RefreshToken).Return(&other, nil)

	decision := NewAuthGuard(codec, store, nil, nil).Check(context.Background(), tokensPair.AccessToken, tokensPair.RefreshToken)

	assertDenied(t, decision, ErrRefreshTokenNotValid)
}

func TestAuthGuard_StorePanicDenies(t *testing.T) {
	codec := security.NewJWTCodec(testSecret, -time.Minute, time.Hour, "tag-service")
	tokensPair, err := codec.Create(testUser.Identity())
	require.NoError(t, err)

	store := new(MockRefreshStore)
	store.On("LookupUserByToken", mock.Anything, tokensPair.RefreshToken).
		Run(func(mock.Arguments) { panic("driver bug") })

	var decision Decision
	require.NotPanics(t, func() {
		decision = NewAuthGuard(codec, store, nil, nil).Check(context.Background(), tokensPair.AccessToken, tokensPair.RefreshToken)
	})

	assertDenied(t, decision, ErrUnauthenticated)
	assert.Equal(t, "internal", denyLabel(decision.Err))
	assert.Contains(t, decision.Err.Error(), "driver bug")
}
