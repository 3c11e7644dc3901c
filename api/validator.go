package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorOnce sync.Once

// initValidator makes binding errors report json or query parameter names instead of
// Go field names.
func initValidator() {
	registerValidatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldNameFromTag)
		}
	})
}

func fieldNameFromTag(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if len(name) > 0 {
		if name == "-" {
			return ""
		}
		return name
	}

	name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	if len(name) > 0 {
		return name
	}

	return ""
}

func adaptFieldValidationError(fe validator.FieldError) string {
	inner := func(fe validator.FieldError) string {
		switch fe.ActualTag() {
		case "required":
			return "is required"
		case "min":
			if fe.Kind() == reflect.String {
				return fmt.Sprintf("must have at least %s characters", fe.Param())
			}
			return fmt.Sprintf("must be at least %s", fe.Param())
		case "max":
			if fe.Kind() == reflect.String {
				return fmt.Sprintf("must have at most %s characters", fe.Param())
			}
			return fmt.Sprintf("must be at most %s", fe.Param())
		}

		return "is invalid"
	}

	return fmt.Sprintf("field `%s` %s", fe.Field(), inner(fe))
}
