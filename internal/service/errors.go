package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("пользователь не аутентифицирован")

	ErrAccessTokenNotSet      = fmt.Errorf("%w: access токен не передан", ErrUnauthenticated)
	ErrRefreshTokenNotSet     = fmt.Errorf("%w: refresh токен не передан", ErrUnauthenticated)
	ErrRefreshTokenNotValid   = fmt.Errorf("%w: refresh токен невалиден", ErrUnauthenticated)
	ErrRefreshTokenSuperseded = fmt.Errorf("%w: refresh токен уже заменен", ErrRefreshTokenNotValid)
	ErrInvalidCredentials     = fmt.Errorf("%w: неверный email или пароль", ErrUnauthenticated)
	ErrForbidden              = errors.New("действие доступно только создателю тэга")
	ErrTagNotFound            = errors.New("тэг не найден")
	ErrTagExists              = errors.New("тэг с таким именем уже существует")
	ErrInvalidArgument        = errors.New("некорректный запрос")
)
