package middleware

import (
	"TagService/internal/httperr"
	"TagService/internal/logctx"
	"TagService/internal/model"
	"TagService/internal/service"
	"context"
	"log/slog"
	"net/http"
)

type identityKey struct{}

// Checker принимает решение по паре токенов запроса.
type Checker interface {
	Check(ctx context.Context, accessToken string, refreshToken string) service.Decision
}

// Authenticate пропускает запрос дальше только при разрешающем решении guard'а.
// Куки меняются здесь и только здесь: обе новые после ротации или обе
// очищенные при отказе.
func Authenticate(guard Checker, cookies Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken, refreshToken := cookies.Tokens(r)
			decision := guard.Check(r.Context(), accessToken, refreshToken)

			if !decision.Allowed() {
				cookies.Clear(w)
				httperr.WriteError(w, r, decision.Err)
				return
			}

			if decision.Issued != nil {
				cookies.Issue(w, decision.Issued)
			}

			ctx := WithIdentity(r.Context(), *decision.Identity)
			ctx = logctx.Into(ctx, logctx.From(ctx).With(slog.String("user_uuid", decision.Identity.UserUUID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom возвращает пользователя, которого пропустил Authenticate.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	return identity, ok
}
