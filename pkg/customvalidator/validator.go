// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"github.com/go-playground/validator/v10"

	"maintenance-system/internal/entities"
)

// RegisterCustomValidations регистрирует правила для перечислений
// домена в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("request_type", isRequestType); err != nil {
		return err
	}
	if err := v.RegisterValidation("request_status", isRequestStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("request_priority", isRequestPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("user_role", isUserRole); err != nil {
		return err
	}
	return nil
}

// Все перечисления принимаются без учёта регистра: нормализация
// к верхнему регистру происходит уже в сервисах.

func isRequestType(fl validator.FieldLevel) bool {
	_, ok := entities.ParseRequestType(fl.Field().String())
	return ok
}

func isRequestStatus(fl validator.FieldLevel) bool {
	_, ok := entities.ParseRequestStatus(fl.Field().String())
	return ok
}

func isRequestPriority(fl validator.FieldLevel) bool {
	_, ok := entities.ParsePriority(fl.Field().String())
	return ok
}

func isUserRole(fl validator.FieldLevel) bool {
	_, ok := entities.ParseRole(fl.Field().String())
	return ok
}
