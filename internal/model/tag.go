package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Tag - тэг в том виде, в котором он хранится в БД.
type Tag struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	SortOrder       int    `db:"sort_order"`
	CreatorUUID     string `db:"creator"`
	CreatorNickname string `db:"creator_nickname"`
}

// Creator собирает автора тэга для ответа.
func (tag *Tag) Creator() Creator {
	return Creator{Nickname: tag.CreatorNickname, UID: tag.CreatorUUID}
}

// Response переводит тэг в представление, которое отдается клиенту и кладется в кэш.
func (tag *Tag) Response() TagResponse {
	return TagResponse{
		Creator:   tag.Creator(),
		Name:      tag.Name,
		SortOrder: tag.SortOrder,
	}
}

// TagResponse - представление одного тэга.
// swagger:model
type TagResponse struct {
	Creator   Creator `json:"creator"`
	Name      string  `json:"name"`
	SortOrder int     `json:"sortOrder"`
}

// Patch переносит в закэшированное представление поля, изменившиеся после обновления.
func (response *TagResponse) Patch(update TagUpdateResult) {
	response.Name = update.Name
	response.SortOrder = update.SortOrder
}

// TagCreated - ответ на создание тэга.
type TagCreated struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// TagCreate - данные для создания тэга.
type TagCreate struct {
	Name      string `json:"name"`
	SortOrder *int   `json:"sortOrder,omitempty"`
}

// TagUpdate - частичное обновление тэга. Пустые поля не меняются.
type TagUpdate struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}

// TagUpdateResult - поля тэга после обновления.
type TagUpdateResult struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// TagUpdated - ответ на обновление тэга.
type TagUpdated struct {
	Creator   Creator `json:"creator"`
	Name      string  `json:"name"`
	SortOrder int     `json:"sortOrder"`
}

// UserTag - элемент списка тэгов пользователя, который возвращается после удаления.
type UserTag struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	SortOrder int    `db:"sort_order" json:"sortOrder"`
}

// TagQuery - параметры выборки списка тэгов.
// SortByName/SortByOrder истинны, если параметр присутствует в запросе (даже пустой).
type TagQuery struct {
	Offset      int  `json:"offset"`
	Length      int  `json:"length"`
	SortByName  bool `json:"sortByName"`
	SortByOrder bool `json:"sortByOrder"`
}

// Signature - нормализованная подпись запроса для ключа кэша списка.
func (query TagQuery) Signature() string {
	raw := strconv.Itoa(query.Offset) + "|" + strconv.Itoa(query.Length) + "|" +
		strconv.FormatBool(query.SortByName) + "|" + strconv.FormatBool(query.SortByOrder)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}

// TagListMeta - мета-информация списка.
type TagListMeta struct {
	Offset   int `json:"offset"`
	Length   int `json:"length"`
	Quantity int `json:"quantity"`
}

// TagListResponse - представление списка тэгов.
// swagger:model
type TagListResponse struct {
	Data []TagResponse `json:"data"`
	Meta TagListMeta   `json:"meta"`
}
