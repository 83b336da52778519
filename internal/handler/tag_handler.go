package handler

import (
	"TagService/internal/model"
	"TagService/internal/service"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type TagHandler struct {
	*service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService}
}

// Create godoc
// @Summary Создать тэг
// @Tags Tag
// @Accept json
// @Produce json
// @Param request body model.TagCreate true "Имя и порядок сортировки"
// @Success 201 {object} model.TagCreated
// @Failure 400 {object} httperr.ErrorResponse "тэг с таким именем уже существует"
// @Failure 401 {object} httperr.ErrorResponse "пользователь не авторизован"
// @Router /tag [post]
func (handler *TagHandler) Create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestIdentity(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	var data model.TagCreate
	if err := decodeJSON(request, &data); err != nil {
		writeError(writer, request, err)
		return
	}

	created, err := handler.TagService.Create(request.Context(), identity, data)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writeJSON(writer, request, http.StatusCreated, created)
}

// Get godoc
// @Summary Получить тэг по id
// @Tags Tag
// @Produce json
// @Param id path int true "id тэга"
// @Success 200 {object} model.TagResponse
// @Failure 404 {object} httperr.ErrorResponse "тэг не найден"
// @Failure 401 {object} httperr.ErrorResponse "пользователь не авторизован"
// @Router /tag/{id} [get]
func (handler *TagHandler) Get(writer http.ResponseWriter, request *http.Request) {
	id, err := tagID(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	tag, err := handler.TagService.Get(request.Context(), id)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writeJSON(writer, request, http.StatusOK, tag)
}

// GetSorted godoc
// @Summary Получить список тэгов
// @Description Пример запроса: GET /tag?offset=0&length=10&sortByOrder. Наличие sortByName/sortByOrder включает сортировку по полю.
// @Tags Tag
// @Produce json
// @Param offset query int false "сколько тэгов пропустить"
// @Param length query int false "сколько тэгов вернуть"
// @Param sortByName query string false "сортировать по имени"
// @Param sortByOrder query string false "сортировать по sortOrder"
// @Success 200 {object} model.TagListResponse
// @Failure 400 {object} httperr.ErrorResponse "некорректный запрос"
// @Router /tag [get]
func (handler *TagHandler) GetSorted(writer http.ResponseWriter, request *http.Request) {
	query, err := parseTagQuery(request.URL.Query())
	if err != nil {
		writeError(writer, request, err)
		return
	}

	tags, err := handler.TagService.GetSorted(request.Context(), query)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writeJSON(writer, request, http.StatusOK, tags)
}

// Update godoc
// @Summary Обновить тэг
// @Description Изменять тэг может только его создатель.
// @Tags Tag
// @Accept json
// @Produce json
// @Param id path int true "id тэга"
// @Param request body model.TagUpdate true "Новые значения"
// @Success 200 {object} model.TagUpdated
// @Failure 403 {object} httperr.ErrorResponse "нет доступа"
// @Failure 404 {object} httperr.ErrorResponse "тэг не найден"
// @Router /tag/{id} [put]
func (handler *TagHandler) Update(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestIdentity(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	id, err := tagID(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	var data model.TagUpdate
	if err := decodeJSON(request, &data); err != nil {
		writeError(writer, request, err)
		return
	}

	updated, err := handler.TagService.Update(request.Context(), identity, id, data)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writeJSON(writer, request, http.StatusOK, updated)
}

// Delete godoc
// @Summary Удалить тэг
// @Description Возвращает оставшиеся тэги пользователя.
// @Tags Tag
// @Produce json
// @Param id path int true "id тэга"
// @Success 200 {array} model.UserTag
// @Failure 403 {object} httperr.ErrorResponse "нет доступа"
// @Failure 404 {object} httperr.ErrorResponse "тэг не найден"
// @Router /tag/{id} [delete]
func (handler *TagHandler) Delete(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestIdentity(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	id, err := tagID(request)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	tags, err := handler.TagService.Delete(request.Context(), identity, id)
	if err != nil {
		writeError(writer, request, err)
		return
	}

	writeJSON(writer, request, http.StatusOK, tags)
}

func parseTagQuery(values url.Values) (model.TagQuery, error) {
	offset, err := intParam(values, "offset")
	if err != nil {
		return model.TagQuery{}, err
	}
	length, err := intParam(values, "length")
	if err != nil {
		return model.TagQuery{}, err
	}

	return model.TagQuery{
		Offset:      offset,
		Length:      length,
		SortByName:  values.Has("sortByName"),
		SortByOrder: values.Has("sortByOrder"),
	}, nil
}

func intParam(values url.Values, name string) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s должен быть неотрицательным числом", service.ErrInvalidArgument, name)
	}
	return value, nil
}
