// Package httperr приводит ошибки сервисного слоя к HTTP-статусу
// и единому JSON-ответу {"error":{"code","message","request_id"}}.
package httperr

import (
	"TagService/internal/logctx"
	"TagService/internal/service"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// APIError - единый формат ошибки для клиента.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP сопоставляет ошибке статус и безопасное сообщение.
// Неизвестные ошибки становятся 500 без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, message := fromService(err)
	return status, ErrorResponse{Error: APIError{Code: code, Message: message}}
}

// WriteError пишет ошибку в ответ. 500 дополнительно логируются с причиной.
func WriteError(writer http.ResponseWriter, request *http.Request, err error) {
	status, response := ToHTTP(err)
	response.Error.RequestID = logctx.RequestID(request.Context())

	if status == http.StatusInternalServerError {
		logctx.From(request.Context()).Error("request_failed", slog.Any("err", err))
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(response)
}

func fromService(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "неверный email или пароль"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "пользователь не авторизован"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden", "действие доступно только создателю тэга"
	case errors.Is(err, service.ErrTagNotFound):
		return http.StatusNotFound, "not_found", "тэг не найден"
	case errors.Is(err, service.ErrTagExists):
		return http.StatusBadRequest, "already_exists", "тэг с таким именем уже существует"
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "некорректный запрос"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}

// StatusClientClosedRequest - клиент закрыл соединение.
const StatusClientClosedRequest = 499
