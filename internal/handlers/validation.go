package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"Tasker/internal/dto"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	personNameRe = regexp.MustCompile(`^[a-zA-Z\s]*$`)
	passwordSet  = regexp.MustCompile(`^[A-Za-z\d@$!%*?&].*$`)

	registerOnce sync.Once
)

// registerValidators installs the custom tags used by the request DTOs on
// gin's validator and makes field errors report JSON/form names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
			return personNameRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return isStrongPassword(fl.Field().String())
		})
	})
}

// isStrongPassword requires a lower and upper case letter, a digit and one
// of @$!%*?&, starting with a character from that alphabet.
func isStrongPassword(p string) bool {
	if !passwordSet.MatchString(p) {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// bindingMessage collapses a bind error to the message of its first
// failing constraint.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return "query parameter " + strconv.Quote(numErr.Num) + " is not a number"
	}
	if errors.Is(err, dto.ErrInvalidTime) {
		return err.Error()
	}
	return "invalid request body"
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "personname":
		return f + " can only contain letters and spaces"
	case "strongpassword":
		return f + " must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	default:
		return f + " is invalid"
	}
}
