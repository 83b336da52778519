package memory

import (
	"TagService/internal/model"
	"TagService/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
)

type TagRepository struct {
	mu     sync.RWMutex
	nextID int64
	tags   map[int64]model.Tag
	users  *UserRepository
}

func NewTagRepository(users *UserRepository) *TagRepository {
	return &TagRepository{
		nextID: 1,
		tags:   make(map[int64]model.Tag),
		users:  users,
	}
}

func (store *TagRepository) Create(ctx context.Context, creatorUUID string, data model.TagCreate) (*model.Tag, error) {
	const op = "memory.TagRepository.Create"

	creator, err := store.users.FindByUUID(ctx, creatorUUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if store.nameTaken(data.Name, 0) {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrAlreadyExists)
	}

	tag := model.Tag{
		ID:              store.nextID,
		Name:            data.Name,
		CreatorUUID:     creator.UUID,
		CreatorNickname: creator.Nickname,
	}
	if data.SortOrder != nil {
		tag.SortOrder = *data.SortOrder
	}
	store.tags[tag.ID] = tag
	store.nextID++

	return &tag, nil
}

func (store *TagRepository) GetByID(_ context.Context, id int64) (*model.Tag, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	tag, ok := store.tags[id]
	if !ok {
		return nil, fmt.Errorf("memory.TagRepository.GetByID: %w", repository.ErrNotFound)
	}

	return &tag, nil
}

func (store *TagRepository) GetByName(_ context.Context, name string) (*model.Tag, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, tag := range store.tags {
		if tag.Name == name {
			return &tag, nil
		}
	}

	return nil, fmt.Errorf("memory.TagRepository.GetByName: %w", repository.ErrNotFound)
}

func (store *TagRepository) GetSorted(_ context.Context, query model.TagQuery) ([]model.Tag, error) {
	store.mu.RLock()
	tags := make([]model.Tag, 0, len(store.tags))
	for _, tag := range store.tags {
		tags = append(tags, tag)
	}
	store.mu.RUnlock()

	sort.Slice(tags, func(i, j int) bool {
		if query.SortByOrder && tags[i].SortOrder != tags[j].SortOrder {
			return tags[i].SortOrder < tags[j].SortOrder
		}
		if query.SortByName && tags[i].Name != tags[j].Name {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].ID < tags[j].ID
	})

	if query.Offset > 0 {
		if query.Offset >= len(tags) {
			return []model.Tag{}, nil
		}
		tags = tags[query.Offset:]
	}
	if query.Length > 0 && query.Length < len(tags) {
		tags = tags[:query.Length]
	}

	return tags, nil
}

func (store *TagRepository) Update(_ context.Context, tag *model.Tag, data model.TagUpdate) (*model.TagUpdateResult, error) {
	const op = "memory.TagRepository.Update"

	store.mu.Lock()
	defer store.mu.Unlock()

	current, ok := store.tags[tag.ID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	if data.Name != nil && *data.Name != "" {
		if store.nameTaken(*data.Name, current.ID) {
			return nil, fmt.Errorf("%s: %w", op, repository.ErrAlreadyExists)
		}
		current.Name = *data.Name
	}
	if data.SortOrder != nil {
		current.SortOrder = *data.SortOrder
	}
	store.tags[current.ID] = current

	return &model.TagUpdateResult{Name: current.Name, SortOrder: current.SortOrder}, nil
}

func (store *TagRepository) Delete(_ context.Context, id int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.tags[id]; !ok {
		return fmt.Errorf("memory.TagRepository.Delete: %w", repository.ErrNotFound)
	}
	delete(store.tags, id)

	return nil
}

func (store *TagRepository) UserTags(_ context.Context, userUUID string) ([]model.UserTag, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	tags := make([]model.UserTag, 0)
	for _, tag := range store.tags {
		if tag.CreatorUUID == userUUID {
			tags = append(tags, model.UserTag{ID: tag.ID, Name: tag.Name, SortOrder: tag.SortOrder})
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })

	return tags, nil
}

func (store *TagRepository) nameTaken(name string, exceptID int64) bool {
	for id, tag := range store.tags {
		if tag.Name == name && id != exceptID {
			return true
		}
	}
	return false
}
