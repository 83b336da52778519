// Package cache - кэш сериализованных ответов по тегам и согласование его
// содержимого с мутациями хранилища.
package cache

import (
	"errors"
	"fmt"
)

var ErrCacheMiss = errors.New("значение отсутствует в кэше")

// Mode определяет раскладку ключей кэша.
type Mode string

const (
	// ModeSingleSlot - один слот на форму ответа: последний прочитанный тег
	// и последний прочитанный список, независимо от параметров запроса.
	ModeSingleSlot Mode = "single_slot"
	// ModePerResource - ключ на каждый тег и на каждую сигнатуру запроса списка.
	ModePerResource Mode = "per_resource"
)

const (
	singleTagKey  = "tag:current"
	singleTagsKey = "tags:current"
	generationKey = "tags:generation"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case "", ModeSingleSlot:
		return ModeSingleSlot, nil
	case ModePerResource:
		return ModePerResource, nil
	default:
		return "", fmt.Errorf("неизвестный режим кэша %q", value)
	}
}
