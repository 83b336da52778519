package service

import (
	"TagService/internal/cache"
	"TagService/internal/model"
	"TagService/internal/repository"
	"TagService/internal/repository/memory"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	owner    = model.Identity{UserUUID: "user-1", Email: "u1@example.com", Nickname: "u1"}
	stranger = model.Identity{UserUUID: "user-2", Email: "u2@example.com", Nickname: "u2"}
)

type tagFixture struct {
	service *TagService
	tags    *memory.TagRepository
	cache   *cache.MemoryCache
}

func newTagFixture(t *testing.T, mode cache.Mode) *tagFixture {
	t.Helper()

	users := memory.NewUserRepository()
	for _, identity := range []model.Identity{owner, stranger} {
		require.NoError(t, users.Add(model.User{UUID: identity.UserUUID, Email: identity.Email, Nickname: identity.Nickname}))
	}

	tags := memory.NewTagRepository(users)
	responses := cache.NewMemoryCache()

	return &tagFixture{
		service: NewTagService(tags, cache.NewCoordinator(responses, mode, nil)),
		tags:    tags,
		cache:   responses,
	}
}

func (fixture *tagFixture) create(t *testing.T, identity model.Identity, name string, sortOrder int) {
	t.Helper()

	_, err := fixture.service.Create(context.Background(), identity, model.TagCreate{Name: name, SortOrder: &sortOrder})
	require.NoError(t, err)
}

func (fixture *tagFixture) cachedTag(t *testing.T) *model.TagResponse {
	t.Helper()

	raw, err := fixture.cache.Get(context.Background(), "tag:current")
	if err != nil {
		require.ErrorIs(t, err, cache.ErrCacheMiss)
		return nil
	}

	var cached model.TagResponse
	require.NoError(t, json.Unmarshal(raw, &cached))
	return &cached
}

func TestTagService_CreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)

	created, err := fixture.service.Create(ctx, owner, model.TagCreate{Name: "backend"})
	require.NoError(t, err)
	assert.Equal(t, model.TagCreated{Name: "backend", SortOrder: 0}, *created)

	_, err = fixture.service.Create(ctx, stranger, model.TagCreate{Name: "backend"})
	assert.ErrorIs(t, err, ErrTagExists)

	_, err = fixture.service.Create(ctx, owner, model.TagCreate{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTagService_CreateRaceMapsToExists(t *testing.T) {
	tags := new(MockTagRepository)
	tags.On("GetByName", mock.Anything, "backend").Return(nil, repository.ErrNotFound)
	tags.On("Create", mock.Anything, owner.UserUUID, mock.Anything).Return(nil, repository.ErrAlreadyExists)

	service := NewTagService(tags, cache.NewCoordinator(cache.NewMemoryCache(), cache.ModeSingleSlot, nil))
	_, err := service.Create(context.Background(), owner, model.TagCreate{Name: "backend"})

	assert.ErrorIs(t, err, ErrTagExists)
}

func TestTagService_GetServesCachedBodyForAnyID(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)
	fixture.create(t, stranger, "frontend", 1)

	first, err := fixture.service.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "backend", first.Name)
	assert.Equal(t, model.Creator{Nickname: "u1", UID: "user-1"}, first.Creator)

	second, err := fixture.service.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTagService_GetSecondReadSkipsStorage(t *testing.T) {
	ctx := context.Background()
	tag := &model.Tag{ID: 5, Name: "backend", CreatorUUID: "user-1", CreatorNickname: "u1"}

	tags := new(MockTagRepository)
	tags.On("GetByID", mock.Anything, int64(5)).Return(tag, nil).Once()

	service := NewTagService(tags, cache.NewCoordinator(cache.NewMemoryCache(), cache.ModeSingleSlot, nil))

	first, err := service.Get(ctx, 5)
	require.NoError(t, err)
	second, err := service.Get(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	tags.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestTagService_GetMissing(t *testing.T) {
	fixture := newTagFixture(t, cache.ModeSingleSlot)

	_, err := fixture.service.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.Nil(t, fixture.cachedTag(t))
}

func TestTagService_UpdateByStrangerIsForbidden(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)
	_, err := fixture.service.Get(ctx, 1)
	require.NoError(t, err)
	before := fixture.cachedTag(t)

	sortOrder := 3
	_, err = fixture.service.Update(ctx, stranger, 1, model.TagUpdate{SortOrder: &sortOrder})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, before, fixture.cachedTag(t))

	tag, err := fixture.tags.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, tag.SortOrder)
}

func TestTagService_UpdatePatchesCacheInPlace(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)
	_, err := fixture.service.Get(ctx, 1)
	require.NoError(t, err)

	sortOrder := 3
	updated, err := fixture.service.Update(ctx, owner, 1, model.TagUpdate{SortOrder: &sortOrder})
	require.NoError(t, err)

	assert.Equal(t, model.TagUpdated{
		Creator:   model.Creator{Nickname: "u1", UID: "user-1"},
		Name:      "backend",
		SortOrder: 3,
	}, *updated)

	cached := fixture.cachedTag(t)
	require.NotNil(t, cached)
	assert.Equal(t, "backend", cached.Name)
	assert.Equal(t, 3, cached.SortOrder)
}

func TestTagService_UpdateLeavesUnrelatedCacheEntry(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)
	fixture.create(t, owner, "frontend", 1)
	_, err := fixture.service.Get(ctx, 2)
	require.NoError(t, err)

	name := "platform"
	_, err = fixture.service.Update(ctx, owner, 1, model.TagUpdate{Name: &name})
	require.NoError(t, err)

	cached := fixture.cachedTag(t)
	require.NotNil(t, cached)
	assert.Equal(t, "frontend", cached.Name)
}

func TestTagService_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)
	fixture.create(t, owner, "frontend", 1)

	name := "frontend"
	_, err := fixture.service.Update(ctx, owner, 1, model.TagUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrTagExists)

	_, err = fixture.service.Update(ctx, owner, 99, model.TagUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrTagNotFound)

	same := " backend "
	updated, err := fixture.service.Update(ctx, owner, 1, model.TagUpdate{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "backend", updated.Name)
}

func TestTagService_DeleteDropsCacheAndReturnsUserTags(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)
	fixture.create(t, owner, "devops", 2)
	fixture.create(t, stranger, "frontend", 1)
	_, err := fixture.service.Get(ctx, 1)
	require.NoError(t, err)

	_, err = fixture.service.Delete(ctx, stranger, 1)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotNil(t, fixture.cachedTag(t))

	remaining, err := fixture.service.Delete(ctx, owner, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.UserTag{{ID: 2, Name: "devops", SortOrder: 2}}, remaining)
	assert.Nil(t, fixture.cachedTag(t))

	next, err := fixture.service.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "frontend", next.Name)

	_, err = fixture.service.Delete(ctx, owner, 1)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTagService_GetSorted(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "zeta", 0)
	fixture.create(t, owner, "alpha", 2)
	fixture.create(t, stranger, "mid", 1)

	list, err := fixture.service.GetSorted(ctx, model.TagQuery{Offset: 0, Length: 2, SortByName: true})
	require.NoError(t, err)

	require.Len(t, list.Data, 2)
	assert.Equal(t, "alpha", list.Data[0].Name)
	assert.Equal(t, "mid", list.Data[1].Name)
	assert.Equal(t, model.TagListMeta{Offset: 0, Length: 2, Quantity: 2}, list.Meta)

	_, err = fixture.service.GetSorted(ctx, model.TagQuery{Offset: -1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTagService_ListingStaysStaleInSingleSlot(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModeSingleSlot)
	fixture.create(t, owner, "backend", 0)

	query := model.TagQuery{Length: 10, SortByOrder: true}
	_, err := fixture.service.GetSorted(ctx, query)
	require.NoError(t, err)

	sortOrder := 7
	_, err = fixture.service.Update(ctx, owner, 1, model.TagUpdate{SortOrder: &sortOrder})
	require.NoError(t, err)

	list, err := fixture.service.GetSorted(ctx, model.TagQuery{Length: 1, SortByName: true})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Data[0].SortOrder)
	assert.Equal(t, 10, list.Meta.Length)
}

func TestTagService_PerResourceModeStaysFresh(t *testing.T) {
	ctx := context.Background()
	fixture := newTagFixture(t, cache.ModePerResource)
	fixture.create(t, owner, "backend", 0)
	fixture.create(t, stranger, "frontend", 1)

	first, err := fixture.service.Get(ctx, 1)
	require.NoError(t, err)
	second, err := fixture.service.Get(ctx, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.Name, second.Name)

	query := model.TagQuery{Length: 10, SortByOrder: true}
	_, err = fixture.service.GetSorted(ctx, query)
	require.NoError(t, err)

	sortOrder := 7
	_, err = fixture.service.Update(ctx, owner, 1, model.TagUpdate{SortOrder: &sortOrder})
	require.NoError(t, err)

	list, err := fixture.service.GetSorted(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "frontend", list.Data[0].Name)
	assert.Equal(t, "backend", list.Data[1].Name)
	assert.Equal(t, 7, list.Data[1].SortOrder)

	tag, err := fixture.service.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, tag.SortOrder)
}
