package repository

import "errors"

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrAlreadyExists - нарушение уникальности.
	ErrAlreadyExists = errors.New("запись уже существует")
	// ErrTokenSuperseded - refresh токен уже заменен другой ротацией.
	ErrTokenSuperseded = errors.New("refresh токен уже заменен")
)
