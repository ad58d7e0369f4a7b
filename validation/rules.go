package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Messages maps a JSON field name, or "field.tag" for a tag-specific message,
// to the text reported when that field fails.
type Messages map[string]string

var (
	logCode     = regexp.MustCompile(`^[A-Za-z0-9]{5,7}$`)
	custCode    = regexp.MustCompile(`^[A-Za-z0-9]{5}$`)
	artCode     = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)
	zipCode     = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	phoneDigits = regexp.MustCompile(`^1?\d{10}$`)
	phoneNoise  = regexp.MustCompile(`[\s\-().]`)
	emailFormat = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameSet = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the domain tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		for tag, fn := range map[string]func(string) bool{
			"logcode":      ValidLogCode,
			"custcode":     ValidCustCode,
			"artcode":      artCode.MatchString,
			"zipcode":      zipCode.MatchString,
			"phone":        ValidPhone,
			"contactemail": ValidEmail,
			"username":     usernameSet.MatchString,
		} {
			match := fn
			if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return match(fl.Field().String())
			}); err != nil {
				panic(fmt.Sprintf("validation: register %s: %v", tag, err))
			}
		}

		validate = v
	})
	return validate
}

// ValidLogCode reports whether s is a 5 to 7 character alphanumeric log code.
func ValidLogCode(s string) bool {
	return logCode.MatchString(s)
}

// ValidCustCode reports whether s is a 5 character alphanumeric customer code.
func ValidCustCode(s string) bool {
	return custCode.MatchString(s)
}

// ValidPhone accepts 10 digits with an optional leading 1, ignoring common
// punctuation.
func ValidPhone(s string) bool {
	return phoneDigits.MatchString(phoneNoise.ReplaceAllString(s, ""))
}

// ValidEmail applies the contact e-mail format.
func ValidEmail(s string) bool {
	return emailFormat.MatchString(s)
}

// ValidateStruct runs the tag rules on v and returns field -> message for
// every failure. The map is empty when v is valid.
func ValidateStruct(v any, messages Messages) map[string]string {
	fields := map[string]string{}

	err := Validator().Struct(v)
	if err == nil {
		return fields
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fields["_"] = err.Error()
		return fields
	}

	for _, fe := range ve {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = messages.For(fe)
	}
	return fields
}

// For picks the message for a failed field, falling back to a generic text.
func (m Messages) For(fe validator.FieldError) string {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Field()]; ok {
		return msg
	}
	return fieldError(fe)
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
