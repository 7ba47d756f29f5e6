package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidBody marks a request body that is not valid JSON for the target type.
var ErrInvalidBody = errors.New("invalid request body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// Validate checks the validate struct tags of v and returns a readable summary.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), reflect.Indirect(reflect.ValueOf(v)).Type().Name()+".")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(problems, "; "))
}

// BindJSON decodes and validates a request body, writing the error response
// itself. It returns false when the handler should stop.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := DecodeJSON(r.Body, dst); err != nil {
		RespondError(w, http.StatusBadRequest, ErrInvalidBody.Error())
		return false
	}
	if err := Validate(dst); err != nil {
		RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}
