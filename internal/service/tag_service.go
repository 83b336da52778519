package service

import (
	"TagService/internal/cache"
	"TagService/internal/logctx"
	"TagService/internal/model"
	"TagService/internal/ports"
	"TagService/internal/repository"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// TagService - операции над тэгами. Чтения идут через кэш ответов,
// после мутаций кэш согласуется через Coordinator.
type TagService struct {
	tags  ports.TagRepository
	cache *cache.Coordinator
}

func NewTagService(tags ports.TagRepository, coordinator *cache.Coordinator) *TagService {
	return &TagService{tags: tags, cache: coordinator}
}

func (service *TagService) Create(ctx context.Context, identity model.Identity, data model.TagCreate) (*model.TagCreated, error) {
	const op = "service.TagService.Create"

	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		return nil, fmt.Errorf("%s: %w: пустое имя тэга", op, ErrInvalidArgument)
	}

	_, err := service.tags.GetByName(ctx, data.Name)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrTagExists)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := service.tags.Create(ctx, identity.UserUUID, data)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", op, ErrTagExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("tag_created", slog.Int64("tag_id", tag.ID), slog.String("user_uuid", identity.UserUUID))

	return &model.TagCreated{Name: tag.Name, SortOrder: tag.SortOrder}, nil
}

// Get отдает тэг из кэша, если он там есть. В режиме single_slot id
// при попадании не проверяется.
func (service *TagService) Get(ctx context.Context, id int64) (*model.TagResponse, error) {
	const op = "service.TagService.Get"

	if cached, ok := service.cache.Tag(ctx, id); ok {
		return cached, nil
	}

	tag, err := service.find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	response := tag.Response()
	service.cache.StoreTag(ctx, id, response)

	return &response, nil
}

func (service *TagService) GetSorted(ctx context.Context, query model.TagQuery) (*model.TagListResponse, error) {
	const op = "service.TagService.GetSorted"

	if query.Offset < 0 || query.Length < 0 {
		return nil, fmt.Errorf("%s: %w: offset и length не могут быть отрицательными", op, ErrInvalidArgument)
	}

	if cached, ok := service.cache.Tags(ctx, query); ok {
		return cached, nil
	}

	tags, err := service.tags.GetSorted(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data := make([]model.TagResponse, 0, len(tags))
	for i := range tags {
		data = append(data, tags[i].Response())
	}

	response := model.TagListResponse{
		Data: data,
		Meta: model.TagListMeta{Offset: query.Offset, Length: query.Length, Quantity: len(tags)},
	}
	service.cache.StoreTags(ctx, query, response)

	return &response, nil
}

// Update меняет тэг. Изменять тэг может только его создатель.
func (service *TagService) Update(ctx context.Context, identity model.Identity, id int64, data model.TagUpdate) (*model.TagUpdated, error) {
	const op = "service.TagService.Update"

	tag, err := service.owned(ctx, identity, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if data.Name != nil {
		trimmed := strings.TrimSpace(*data.Name)
		data.Name = &trimmed
		if trimmed != "" && trimmed != tag.Name {
			if _, err := service.tags.GetByName(ctx, trimmed); err == nil {
				return nil, fmt.Errorf("%s: %w", op, ErrTagExists)
			}
		}
	}

	result, err := service.tags.Update(ctx, tag, data)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, ErrTagNotFound)
	case errors.Is(err, repository.ErrAlreadyExists):
		return nil, fmt.Errorf("%s: %w", op, ErrTagExists)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	service.cache.OnUpdate(ctx, tag.ID, tag.Name, *result)

	logctx.From(ctx).Info("tag_updated", slog.Int64("tag_id", tag.ID))

	return &model.TagUpdated{
		Creator:   tag.Creator(),
		Name:      result.Name,
		SortOrder: result.SortOrder,
	}, nil
}

// Delete удаляет тэг и возвращает оставшиеся тэги пользователя.
func (service *TagService) Delete(ctx context.Context, identity model.Identity, id int64) ([]model.UserTag, error) {
	const op = "service.TagService.Delete"

	tag, err := service.owned(ctx, identity, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = service.tags.Delete(ctx, tag.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrTagNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	service.cache.OnDelete(ctx, tag.ID, tag.Name)

	logctx.From(ctx).Info("tag_deleted", slog.Int64("tag_id", tag.ID))

	tags, err := service.tags.UserTags(ctx, identity.UserUUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tags, nil
}

func (service *TagService) find(ctx context.Context, id int64) (*model.Tag, error) {
	tag, err := service.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// owned находит тэг и проверяет, что запрашивающий - его создатель.
func (service *TagService) owned(ctx context.Context, identity model.Identity, id int64) (*model.Tag, error) {
	tag, err := service.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag.CreatorUUID != identity.UserUUID {
		return nil, ErrForbidden
	}
	return tag, nil
}
