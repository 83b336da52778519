package handler

import (
	"TagService/internal/middleware"
	"TagService/internal/service"
	"net/http"
)

type AuthenticationHandler struct {
	*service.AuthenticationService
	cookies middleware.Cookies
}

// LoginRequest содержит email и пароль пользователя
// swagger:model
type LoginRequest struct {
	// example: user@example.com
	Email string `json:"email"`
	// example: secret-password
	Password string `json:"password"`
}

func NewAuthenticationHandler(authenticationService *service.AuthenticationService, cookies middleware.Cookies) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService, cookies}
}

// Login godoc
// @Summary Вход
// @Description Проверяет пароль, выпускает пару токенов и записывает их в куки. Прежние сессии пользователя становятся недействительными.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Email и пароль"
// @Success 200 {object} model.Identity
// @Failure 400 {object} httperr.ErrorResponse "неверный json"
// @Failure 401 {object} httperr.ErrorResponse "неверный email или пароль"
// @Router /auth/login [post]
func (handler *AuthenticationHandler) Login(writer http.ResponseWriter, request *http.Request) {
	var loginRequest LoginRequest
	if err := decodeJSON(request, &loginRequest); err != nil {
		writeError(writer, request, err)
		return
	}

	identity, tokensPair, err := handler.AuthenticationService.Login(request.Context(), loginRequest.Email, loginRequest.Password)
	if err != nil {
		handler.cookies.Clear(writer)
		writeError(writer, request, err)
		return
	}

	handler.cookies.Issue(writer, tokensPair)
	writeJSON(writer, request, http.StatusOK, identity)
}

// Logout godoc
// @Summary Выход из аккаунта
// @Description Удаляет refresh токен пользователя и очищает куки.
// @Tags Authentication
// @Produce json
// @Success 200 {object} MessageResponse "выполнен выход из аккаунта"
// @Failure 401 {object} httperr.ErrorResponse "пользователь не авторизован"
// @Router /auth/logout [post]
func (handler *AuthenticationHandler) Logout(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestIdentity(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	if err := handler.AuthenticationService.Logout(request.Context(), identity.UserUUID); err != nil {
		writeError(writer, request, err)
		return
	}

	handler.cookies.Clear(writer)
	writeJSON(writer, request, http.StatusOK, &MessageResponse{Message: "выполнен выход из аккаунта"})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Authentication
// @Produce json
// @Success 200 {object} model.Identity
// @Failure 401 {object} httperr.ErrorResponse "пользователь не авторизован"
// @Router /auth/me [get]
func (handler *AuthenticationHandler) Me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestIdentity(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	current, err := handler.AuthenticationService.Me(request.Context(), identity)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writeJSON(writer, request, http.StatusOK, current)
}
