package service

import (
	"TagService/internal/model"
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockRefreshStore struct {
	mock.Mock
}

func (m *MockRefreshStore) Save(ctx context.Context, userUUID string, refreshToken string, expireAt time.Time) error {
	return m.Called(ctx, userUUID, refreshToken, expireAt).Error(0)
}

func (m *MockRefreshStore) LookupUserByToken(ctx context.Context, refreshToken string) (*model.User, error) {
	args := m.Called(ctx, refreshToken)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockRefreshStore) Rotate(ctx context.Context, userUUID string, oldToken string, newToken string, expireAt time.Time) error {
	return m.Called(ctx, userUUID, oldToken, newToken, expireAt).Error(0)
}

func (m *MockRefreshStore) Delete(ctx context.Context, userUUID string) error {
	return m.Called(ctx, userUUID).Error(0)
}

func (m *MockRefreshStore) DeleteExpired(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyWebhook(ctx context.Context, event string, userUUID string, requestID string) error {
	return m.Called(ctx, event, userUUID, requestID).Error(0)
}

type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, creatorUUID string, data model.TagCreate) (*model.Tag, error) {
	args := m.Called(ctx, creatorUUID, data)
	tag, _ := args.Get(0).(*model.Tag)
	return tag, args.Error(1)
}

func (m *MockTagRepository) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	args := m.Called(ctx, id)
	tag, _ := args.Get(0).(*model.Tag)
	return tag, args.Error(1)
}

func (m *MockTagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	args := m.Called(ctx, name)
	tag, _ := args.Get(0).(*model.Tag)
	return tag, args.Error(1)
}

func (m *MockTagRepository) GetSorted(ctx context.Context, query model.TagQuery) ([]model.Tag, error) {
	args := m.Called(ctx, query)
	tags, _ := args.Get(0).([]model.Tag)
	return tags, args.Error(1)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *model.Tag, data model.TagUpdate) (*model.TagUpdateResult, error) {
	args := m.Called(ctx, tag, data)
	result, _ := args.Get(0).(*model.TagUpdateResult)
	return result, args.Error(1)
}

func (m *MockTagRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTagRepository) UserTags(ctx context.Context, userUUID string) ([]model.UserTag, error) {
	args := m.Called(ctx, userUUID)
	tags, _ := args.Get(0).([]model.UserTag)
	return tags, args.Error(1)
}
