package model

import "time"

// RefreshToken - серверная запись refresh токена.
// На пользователя хранится не более одной записи, токен хранится в виде отпечатка.
type RefreshToken struct {
	UserUUID  string    `db:"user_uuid"`
	TokenHash string    `db:"token_hash"`
	ExpireAt  time.Time `db:"expire_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (JWT с более долгим сроком жизни)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`

	AccessExpireAt  time.Time `json:"-"`
	RefreshExpireAt time.Time `json:"-"`
}
