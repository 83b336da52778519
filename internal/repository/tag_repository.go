package repository

import (
	"TagService/internal"
	"TagService/internal/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const selectTag = `SELECT t.id, t.name, t.sort_order, t.creator, u.nickname AS creator_nickname
				   FROM tags t
				   JOIN users u ON u.uuid = t.creator`

type TagRepository struct {
	*internal.Database
}

func NewTagRepository(database *internal.Database) *TagRepository {
	return &TagRepository{database}
}

func (repository *TagRepository) Create(ctx context.Context, creatorUUID string, data model.TagCreate) (*model.Tag, error) {
	const op = "repository.TagRepository.Create"

	tag := &model.Tag{
		Name:        data.Name,
		CreatorUUID: creatorUUID,
	}
	if data.SortOrder != nil {
		tag.SortOrder = *data.SortOrder
	}

	query := `INSERT INTO tags (name, sort_order, creator) VALUES ($1, $2, $3) RETURNING id`
	err := repository.DB.QueryRowxContext(ctx, query, tag.Name, tag.SortOrder, tag.CreatorUUID).Scan(&tag.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка вставки тэга: %w", op, mapError(err))
	}

	return tag, nil
}

func (repository *TagRepository) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	return repository.getOne(ctx, "repository.TagRepository.GetByID", selectTag+` WHERE t.id = $1`, id)
}

func (repository *TagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	return repository.getOne(ctx, "repository.TagRepository.GetByName", selectTag+` WHERE t.name = $1`, name)
}

func (repository *TagRepository) getOne(ctx context.Context, op string, query string, arg any) (*model.Tag, error) {
	var tag model.Tag

	err := repository.DB.GetContext(ctx, &tag, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка выполнения запроса: %w", op, err)
	}

	return &tag, nil
}

func (repository *TagRepository) GetSorted(ctx context.Context, query model.TagQuery) ([]model.Tag, error) {
	const op = "repository.TagRepository.GetSorted"

	statement, args := sortedQuery(query)

	tags := make([]model.Tag, 0)
	if err := repository.DB.SelectContext(ctx, &tags, statement, args...); err != nil {
		return nil, fmt.Errorf("%s: ошибка выполнения запроса: %w", op, err)
	}

	return tags, nil
}

// sortedQuery собирает запрос списка: сначала sort_order, затем name, id - для стабильного порядка.
func sortedQuery(query model.TagQuery) (string, []any) {
	var builder strings.Builder
	builder.WriteString(selectTag)

	order := make([]string, 0, 3)
	if query.SortByOrder {
		order = append(order, "t.sort_order ASC")
	}
	if query.SortByName {
		order = append(order, "t.name ASC")
	}
	order = append(order, "t.id ASC")
	builder.WriteString(" ORDER BY " + strings.Join(order, ", "))

	args := make([]any, 0, 2)
	if query.Length > 0 {
		args = append(args, query.Length)
		builder.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if query.Offset > 0 {
		args = append(args, query.Offset)
		builder.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	return builder.String(), args
}

// Update меняет только переданные поля. Значения берутся из строки, а не из
// прочитанного ранее тэга, поэтому параллельные частичные обновления не затирают друг друга.
func (repository *TagRepository) Update(ctx context.Context, tag *model.Tag, data model.TagUpdate) (*model.TagUpdateResult, error) {
	const op = "repository.TagRepository.Update"

	var name *string
	if data.Name != nil && *data.Name != "" {
		name = data.Name
	}

	query := `UPDATE tags
			  SET name = COALESCE($1, name), sort_order = COALESCE($2, sort_order)
			  WHERE id = $3
			  RETURNING name, sort_order`

	var result model.TagUpdateResult
	err := repository.DB.QueryRowxContext(ctx, query, name, data.SortOrder, tag.ID).Scan(&result.Name, &result.SortOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка обновления тэга: %w", op, mapError(err))
	}

	return &result, nil
}

func (repository *TagRepository) Delete(ctx context.Context, id int64) error {
	const op = "repository.TagRepository.Delete"

	result, err := repository.DB.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return nil
}

func (repository *TagRepository) UserTags(ctx context.Context, userUUID string) ([]model.UserTag, error) {
	const op = "repository.TagRepository.UserTags"

	tags := make([]model.UserTag, 0)
	query := `SELECT id, name, sort_order FROM tags WHERE creator = $1 ORDER BY id`
	if err := repository.DB.SelectContext(ctx, &tags, query, userUUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tags, nil
}
