package cache

import (
	"TagService/internal/logctx"
	"TagService/internal/metrics"
	"TagService/internal/model"
	"TagService/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
)

const (
	shapeTag  = "tag"
	shapeTags = "tags"
)

// Coordinator читает и пишет закэшированные ответы и приводит их в соответствие
// с изменениями тегов. Ошибки кэша не прерывают запрос: они логируются,
// а чтение считается промахом.
type Coordinator struct {
	cache   ports.ResponseCache
	mode    Mode
	metrics *metrics.Metrics
}

func NewCoordinator(cache ports.ResponseCache, mode Mode, metrics *metrics.Metrics) *Coordinator {
	if mode == "" {
		mode = ModeSingleSlot
	}
	return &Coordinator{cache: cache, mode: mode, metrics: metrics}
}

// Tag возвращает закэшированное представление тега.
// В режиме single_slot слот общий для всех id: попадание отдает то, что лежит в слоте.
func (coordinator *Coordinator) Tag(ctx context.Context, id int64) (*model.TagResponse, bool) {
	var cached model.TagResponse
	hit := coordinator.read(ctx, coordinator.tagKey(id), &cached)
	coordinator.metrics.CacheLookup(shapeTag, hit)
	if !hit {
		return nil, false
	}
	return &cached, true
}

func (coordinator *Coordinator) StoreTag(ctx context.Context, id int64, response model.TagResponse) {
	coordinator.store(ctx, coordinator.tagKey(id), response)
}

// Tags возвращает закэшированный список.
// В режиме single_slot параметры запроса не участвуют в ключе.
func (coordinator *Coordinator) Tags(ctx context.Context, query model.TagQuery) (*model.TagListResponse, bool) {
	key, ok := coordinator.listKey(ctx, query)
	if !ok {
		coordinator.metrics.CacheLookup(shapeTags, false)
		return nil, false
	}

	var cached model.TagListResponse
	hit := coordinator.read(ctx, key, &cached)
	coordinator.metrics.CacheLookup(shapeTags, hit)
	if !hit {
		return nil, false
	}
	return &cached, true
}

func (coordinator *Coordinator) StoreTags(ctx context.Context, query model.TagQuery, response model.TagListResponse) {
	key, ok := coordinator.listKey(ctx, query)
	if !ok {
		return
	}
	coordinator.store(ctx, key, response)
}

// OnUpdate переносит результат обновления в закэшированный тег.
// Запись меняется, только если ее имя совпадает с именем тега до обновления.
// Закэшированный список в single_slot не трогается, в per_resource
// все списки становятся недействительными.
func (coordinator *Coordinator) OnUpdate(ctx context.Context, id int64, previousName string, result model.TagUpdateResult) {
	key := coordinator.tagKey(id)

	var cached model.TagResponse
	if coordinator.read(ctx, key, &cached) && cached.Name == previousName {
		cached.Patch(result)
		coordinator.store(ctx, key, cached)
	}

	if coordinator.mode == ModePerResource {
		coordinator.invalidateLists(ctx)
	}
}

// OnDelete убирает удаленный тег из кэша.
func (coordinator *Coordinator) OnDelete(ctx context.Context, id int64, name string) {
	key := coordinator.tagKey(id)

	var cached model.TagResponse
	if coordinator.read(ctx, key, &cached) && cached.Name == name {
		coordinator.remove(ctx, key)
	}

	if coordinator.mode == ModePerResource {
		coordinator.invalidateLists(ctx)
	}
}

func (coordinator *Coordinator) tagKey(id int64) string {
	if coordinator.mode == ModePerResource {
		return "tag:" + strconv.FormatInt(id, 10)
	}
	return singleTagKey
}

// listKey в per_resource включает текущее поколение списков: смена поколения
// делает недостижимыми все ранее записанные списки.
func (coordinator *Coordinator) listKey(ctx context.Context, query model.TagQuery) (string, bool) {
	if coordinator.mode != ModePerResource {
		return singleTagsKey, true
	}

	generation, err := coordinator.cache.Get(ctx, generationKey)
	switch {
	case errors.Is(err, ErrCacheMiss):
		generation = []byte(uuid.NewString())
		if err := coordinator.cache.Set(ctx, generationKey, generation); err != nil {
			coordinator.fail(ctx, "set", generationKey, err)
			return "", false
		}
	case err != nil:
		coordinator.fail(ctx, "get", generationKey, err)
		return "", false
	}

	return "tags:" + string(generation) + ":" + query.Signature(), true
}

func (coordinator *Coordinator) invalidateLists(ctx context.Context) {
	if err := coordinator.cache.Set(ctx, generationKey, []byte(uuid.NewString())); err != nil {
		coordinator.fail(ctx, "set", generationKey, err)
	}
}

func (coordinator *Coordinator) read(ctx context.Context, key string, target any) bool {
	raw, err := coordinator.cache.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false
	}
	if err != nil {
		coordinator.fail(ctx, "get", key, err)
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		coordinator.fail(ctx, "decode", key, err)
		coordinator.remove(ctx, key)
		return false
	}
	return true
}

func (coordinator *Coordinator) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		coordinator.fail(ctx, "encode", key, err)
		return
	}
	if err := coordinator.cache.Set(ctx, key, raw); err != nil {
		coordinator.fail(ctx, "set", key, err)
	}
}

func (coordinator *Coordinator) remove(ctx context.Context, key string) {
	if err := coordinator.cache.Delete(ctx, key); err != nil {
		coordinator.fail(ctx, "delete", key, err)
	}
}

func (coordinator *Coordinator) fail(ctx context.Context, operation string, key string, err error) {
	coordinator.metrics.CacheError(operation)
	logctx.From(ctx).Warn("response_cache_failed",
		slog.String("operation", operation),
		slog.String("key", key),
		slog.Any("err", err),
	)
}
