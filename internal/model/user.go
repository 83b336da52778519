package model

import "time"

// User - пользователь, от имени которого выполняются запросы.
type User struct {
	UUID         string    `db:"uuid" json:"uid"`
	Email        string    `db:"email" json:"email"`
	Nickname     string    `db:"nickname" json:"nickname"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// Identity - аутентифицированная личность, которую guard прикрепляет к запросу.
type Identity struct {
	UserUUID string `json:"uid"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Identity возвращает данные пользователя, которые зашиваются в claims.
func (user *User) Identity() Identity {
	return Identity{
		UserUUID: user.UUID,
		Email:    user.Email,
		Nickname: user.Nickname,
	}
}

// Creator - автор тэга в ответах API
// swagger:model
type Creator struct {
	Nickname string `json:"nickname"`
	UID      string `json:"uid"`
}
