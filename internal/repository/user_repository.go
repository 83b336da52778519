package repository

import (
	"TagService/internal"
	"TagService/internal/model"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type UserRepository struct {
	*internal.Database
}

func NewUserRepository(database *internal.Database) *UserRepository {
	return &UserRepository{database}
}

func (repository *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return repository.findOne(ctx, "repository.UserRepository.FindByEmail",
		`SELECT uuid, email, nickname, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (repository *UserRepository) FindByUUID(ctx context.Context, userUUID string) (*model.User, error) {
	return repository.findOne(ctx, "repository.UserRepository.FindByUUID",
		`SELECT uuid, email, nickname, password_hash, created_at FROM users WHERE uuid = $1`,
		userUUID)
}

func (repository *UserRepository) findOne(ctx context.Context, op string, query string, arg any) (*model.User, error) {
	var user model.User

	err := repository.DB.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка выполнения запроса: %w", op, err)
	}

	return &user, nil
}
