package form

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/novelia/novelia/internal/api"
)

var validate = validator.New()

// validate checks the required draft fields locally so an incomplete form
// fails fast, before any upload or network call. Failures use the same
// ValidationFailed shape as backend rejections.
func (c *Controller) validate() error {
	err := validate.Struct(c.draft)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = "This field is required."
	}
	return api.NewValidationError(fields)
}
