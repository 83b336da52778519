package middleware

import (
	"TagService/internal/model"
	"net/http"
	"strings"
	"time"
)

// Cookies описывает пару кук с токенами.
type Cookies struct {
	AccessName  string
	RefreshName string
	Path        string
	Domain      string
	Secure      bool
	HTTPOnly    bool
	SameSite    http.SameSite
}

// Tokens читает оба токена из запроса. Отсутствующая кука - пустая строка.
func (cookies Cookies) Tokens(r *http.Request) (string, string) {
	return cookies.value(r, cookies.AccessName), cookies.value(r, cookies.RefreshName)
}

// Issue записывает обе куки новой пары.
func (cookies Cookies) Issue(w http.ResponseWriter, tokensPair *model.TokensPair) {
	http.SetCookie(w, cookies.cookie(cookies.AccessName, tokensPair.AccessToken, tokensPair.AccessExpireAt))
	http.SetCookie(w, cookies.cookie(cookies.RefreshName, tokensPair.RefreshToken, tokensPair.RefreshExpireAt))
}

// Clear стирает обе куки.
func (cookies Cookies) Clear(w http.ResponseWriter) {
	for _, name := range []string{cookies.AccessName, cookies.RefreshName} {
		cookie := cookies.cookie(name, "", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func (cookies Cookies) cookie(name string, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cookies.Path,
		Domain:   cookies.Domain,
		Expires:  expires,
		Secure:   cookies.Secure,
		HttpOnly: cookies.HTTPOnly,
		SameSite: cookies.SameSite,
	}
}

func (cookies Cookies) value(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ParseSameSite переводит значение из конфига в http.SameSite.
func ParseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteDefaultMode
	}
}
