package handler

import (
	"TagService/internal/httperr"
	"TagService/internal/logctx"
	"TagService/internal/middleware"
	"TagService/internal/model"
	"TagService/internal/service"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// MessageResponse содержит строку с сообщением
// swagger:model
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(writer http.ResponseWriter, request *http.Request, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		logctx.From(request.Context()).Warn("response_write_failed", slog.Any("err", err))
	}
}

func decodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: неверный json: %v", service.ErrInvalidArgument, err)
	}
	return nil
}

func requestIdentity(request *http.Request) (model.Identity, error) {
	identity, ok := middleware.IdentityFrom(request.Context())
	if !ok {
		return model.Identity{}, service.ErrUnauthenticated
	}
	return identity, nil
}

func tagID(request *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id тэга должен быть положительным числом", service.ErrInvalidArgument)
	}
	return id, nil
}

func writeError(writer http.ResponseWriter, request *http.Request, err error) {
	httperr.WriteError(writer, request, err)
}
