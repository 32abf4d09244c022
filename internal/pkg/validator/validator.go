// Package validator wraps go-playground struct validation into the flat
// field -> failed-rule map the services report invalid input with.
package validator

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate runs the struct tags of v and returns the failing fields keyed
// by field name, or nil when everything passes.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
