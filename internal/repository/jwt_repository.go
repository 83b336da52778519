package repository

import (
	"TagService/internal"
	"TagService/internal/model"
	"TagService/internal/security"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// JWTRepository - postgres реализация хранилища refresh токенов.
// В таблице лежит одна запись на пользователя, токен хранится отпечатком.
type JWTRepository struct {
	*internal.Database
}

func NewJWTRepository(database *internal.Database) *JWTRepository {
	return &JWTRepository{database}
}

func (repository *JWTRepository) Save(ctx context.Context, userUUID string, refreshToken string, expireAt time.Time) error {
	const op = "repository.JWTRepository.Save"

	query := `INSERT INTO refresh_tokens (user_uuid, token_hash, expire_at, updated_at)
			  VALUES ($1, $2, $3, now())
			  ON CONFLICT (user_uuid) DO UPDATE
			  SET token_hash = EXCLUDED.token_hash, expire_at = EXCLUDED.expire_at, updated_at = EXCLUDED.updated_at`

	_, err := repository.DB.ExecContext(ctx, query, userUUID, security.Fingerprint(refreshToken), expireAt)
	if err != nil {
		return fmt.Errorf("%s: ошибка вставки данных в БД: %w", op, mapError(err))
	}

	return nil
}

func (repository *JWTRepository) LookupUserByToken(ctx context.Context, refreshToken string) (*model.User, error) {
	const op = "repository.JWTRepository.LookupUserByToken"

	query := `SELECT u.uuid, u.email, u.nickname, u.password_hash, u.created_at
			  FROM refresh_tokens r
			  JOIN users u ON u.uuid = r.user_uuid
			  WHERE r.token_hash = $1 AND r.expire_at > now()`

	var user model.User
	err := repository.DB.GetContext(ctx, &user, query, security.Fingerprint(refreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: ошибка выполнения запроса: %w", op, err)
	}

	return &user, nil
}

// Rotate - compare-and-swap по отпечатку старого токена.
// Из двух параллельных ротаций одного токена строку обновит только одна.
func (repository *JWTRepository) Rotate(ctx context.Context, userUUID string, oldToken string, newToken string, expireAt time.Time) error {
	const op = "repository.JWTRepository.Rotate"

	query := `UPDATE refresh_tokens
			  SET token_hash = $3, expire_at = $4, updated_at = now()
			  WHERE user_uuid = $1 AND token_hash = $2`

	result, err := repository.DB.ExecContext(ctx, query,
		userUUID,
		security.Fingerprint(oldToken),
		security.Fingerprint(newToken),
		expireAt,
	)
	if err != nil {
		return fmt.Errorf("%s: не удалось обновить рефреш токен: %w", op, mapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: не удалось проверить, обновлен ли токен: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrTokenSuperseded)
	}

	return nil
}

func (repository *JWTRepository) Delete(ctx context.Context, userUUID string) error {
	const op = "repository.JWTRepository.Delete"

	_, err := repository.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_uuid = $1`, userUUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (repository *JWTRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	const op = "repository.JWTRepository.DeleteExpired"

	_, err := repository.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expire_at <= $1`, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
