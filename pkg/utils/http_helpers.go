package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 25
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает limit/page/offset, sort[...] и filter[...]
// из строки запроса.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:           make(map[string]string),
		Filter:         make(map[string]interface{}),
		Limit:          DefaultLimit,
		Page:           1,
		WithPagination: true,
	}

	if limitStr := values.Get("perPage"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = vals[0]
		}
	}

	return filterReq
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	if len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int(total[0]) / filter.Limit
			if int(total[0])%filter.Limit > 0 {
				totalPages++
			}
		}
		pagination := types.Pagination{
			TotalCount: total[0],
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит доменную ошибку в HTTP-ответ.
// Ни одна отклонённая операция не возвращает 200: маппинг видов ошибок
// на коды — единственная точка, где это решается.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return fail(c, http.StatusBadRequest, invalidInput.Message)
	}

	var invalidTransition *apperrors.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		return fail(c, http.StatusBadRequest, invalidTransition.Error())
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return fail(c, http.StatusBadRequest, "Ошибка валидации: "+strings.Join(msgs, "; "))
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrBadRequest):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrAccountLocked):
		return fail(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrUserIDNotFoundInContext),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess):
		return fail(c, http.StatusUnauthorized, err.Error())
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return fail(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
}

func fail(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}
