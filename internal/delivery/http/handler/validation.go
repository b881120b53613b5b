package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/location-map/internal/pkg/errors"
	pkgvalidator "github.com/location-map/internal/pkg/validator"
)

// validate проверяет тело запроса и переводит ошибки валидатора в ErrInvalidRequest
func validate(req interface{}) error {
	err := pkgvalidator.Validate(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.ErrInvalidRequest
	}

	fields := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fe.Tag()
	}
	return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"fields": fields,
	})
}

func invalidBody(err error) error {
	return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"reason": "invalid request body: " + err.Error(),
	})
}
