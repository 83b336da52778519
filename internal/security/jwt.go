package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"TagService/internal/model"
)

// ErrInvalidToken - токен не прошел проверку: битая структура, чужая подпись или истекший срок.
// Причина намеренно не различается.
var ErrInvalidToken = errors.New("невалидный токен")

// Виды токенов в паре.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type Claims struct {
	UserUUID string `json:"uid"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// Identity возвращает личность, зашитую в токен.
func (claims *Claims) Identity() model.Identity {
	return model.Identity{
		UserUUID: claims.UserUUID,
		Email:    claims.Email,
		Nickname: claims.Nickname,
	}
}

// JWTCodec выпускает и проверяет подписанные токены. Состояния между вызовами не хранит.
type JWTCodec struct {
	secretKey       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	issuer          string
	now             func() time.Time
}

func NewJWTCodec(secretKey string, accessTokenTTL, refreshTokenTTL time.Duration, issuer string) *JWTCodec {
	return &JWTCodec{
		secretKey:       []byte(secretKey),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		issuer:          issuer,
		now:             time.Now,
	}
}

// Create выпускает пару access/refresh токенов для пользователя.
// У каждого токена свой jti, поэтому две пары не совпадают даже в одну секунду.
func (codec *JWTCodec) Create(identity model.Identity) (*model.TokensPair, error) {
	const op = "security.JWTCodec.Create"

	now := codec.now().UTC()

	accessToken, accessExpireAt, err := codec.sign(identity, KindAccess, now, codec.accessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка подписи access токена: %w", op, err)
	}

	refreshToken, refreshExpireAt, err := codec.sign(identity, KindRefresh, now, codec.refreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка подписи refresh токена: %w", op, err)
	}

	return &model.TokensPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpireAt:  accessExpireAt,
		RefreshExpireAt: refreshExpireAt,
	}, nil
}

func (codec *JWTCodec) sign(identity model.Identity, kind string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expireAt := now.Add(ttl)

	claims := Claims{
		UserUUID: identity.UserUUID,
		Email:    identity.Email,
		Nickname: identity.Nickname,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.UserUUID,
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    codec.issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := jwtToken.SignedString(codec.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expireAt, nil
}

// Verify проверяет подпись и срок действия токена. Никаких обращений к хранилищам.
// Любая ошибка разбора сводится к ErrInvalidToken.
func (codec *JWTCodec) Verify(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return codec.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(codec.issuer),
		jwt.WithTimeFunc(codec.now),
		jwt.WithExpirationRequired(),
	)

	if err != nil || jwtToken == nil || !jwtToken.Valid || claims.UserUUID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
