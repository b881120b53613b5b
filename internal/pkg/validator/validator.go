package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/location-map/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("zoom", func(fl validator.FieldLevel) bool {
		return domain.ValidZoom(int(fl.Field().Int()))
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}
