package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

// mapError переводит ошибку драйвера postgres в ошибку репозитория.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pqErr.Constraint)
	}

	return err
}
