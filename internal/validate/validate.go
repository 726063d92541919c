// Package validate checks the apply and add-job forms before anything is
// sent to the backend.
package validate

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Error is a validation failure carrying the message shown to the user.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		must(validate.RegisterValidation("trimmed_min", trimmedMin))
		must(validate.RegisterValidation("trimmed_required", trimmedRequired))
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// trimmedMin checks that a string has at least param characters once
// surrounding whitespace is removed.
func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

func trimmedRequired(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// failures runs the struct validation and returns the failing field names
// mapped to the failing tag.
func failures(s interface{}) (map[string]string, error) {
	err := getValidator().Struct(s)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out, nil
}
