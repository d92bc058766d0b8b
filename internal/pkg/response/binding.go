package response

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingMessage turns a gin binding failure into the REST layer's
// missing/invalid parameter message, using json tag names so callers see the
// wire field names rather than Go struct fields.
func BindingMessage(err error, requestType any) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request body."
	}

	var missing, invalid []string
	structType := reflect.TypeOf(requestType)
	for _, fieldError := range validationErrors {
		name := jsonFieldName(structType, fieldError.StructField())
		if fieldError.Tag() == "required" {
			missing = append(missing, name)
		} else {
			invalid = append(invalid, name)
		}
	}

	switch {
	case len(missing) > 0:
		return fmt.Sprintf("Missing parameter(s): %s", strings.Join(missing, ", "))
	case len(invalid) > 0:
		return fmt.Sprintf("Invalid parameter(s): %s", strings.Join(invalid, ", "))
	default:
		return "Invalid request body."
	}
}

func jsonFieldName(structType reflect.Type, structField string) string {
	if structType == nil || structType.Kind() != reflect.Struct {
		return structField
	}
	field, ok := structType.FieldByName(structField)
	if !ok {
		return structField
	}
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return structField
	}
	return strings.Split(tag, ",")[0]
}
