package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mehfilportal/admin-api/internal/model"
)

// RegisterValidations adds the domain token checks to gin's binding
// validator so request structs can declare them in binding tags.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return model.Weekday(fl.Field().String()).Valid()
	})
	v.RegisterValidation("coordinator_type", func(fl validator.FieldLevel) bool {
		return model.CoordinatorType(fl.Field().String()).Valid()
	})
}
