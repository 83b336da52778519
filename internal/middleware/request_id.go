package middleware

import (
	"TagService/internal/logctx"
	"net/http"

	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-Id"

// RequestID берет X-Request-Id из запроса или генерирует новый,
// отдает его в ответе и кладет в контекст.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			next.ServeHTTP(w, r.WithContext(logctx.WithRequestID(r.Context(), id)))
		})
	}
}
