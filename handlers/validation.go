package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessages runs the struct's validate tags and returns one message
// per violated rule. A nil result means the payload is valid.
func validationMessages(payload any) []string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return msgs
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("instance requires property %q", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("instance.%s does not meet minimum length of %s", field, fe.Param())
		}
		return fmt.Sprintf("instance.%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("instance.%s does not meet maximum length of %s", field, fe.Param())
		}
		return fmt.Sprintf("instance.%s must be less than or equal to %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("instance.%s does not conform to the \"date\" format (YYYY-MM-DD)", field)
	}
	return fmt.Sprintf("instance.%s failed the %q rule", field, fe.Tag())
}

// bindPayload decodes and validates the request body into dst, writing the
// 400 response itself when either step fails. It returns the property order.
func bindPayload(w http.ResponseWriter, r *http.Request, dst any) ([]string, bool) {
	order, err := decodeBody(w, r, dst)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return nil, false
	}
	if msgs := validationMessages(dst); msgs != nil {
		WriteAPIErrors(w, http.StatusBadRequest, CodeValidation, msgs)
		return nil, false
	}
	return order, true
}
