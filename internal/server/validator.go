package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator plugs go-playground/validator into echo, reporting fields by
// their JSON name.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(validateMeetingsRequest, MeetingsRequest{})
	return &Validator{validate: validate}
}

func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		msgs = append(msgs, field+": "+msg)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required_if":
			params := strings.Fields(err.Param())
			if len(params) == 2 {
				fields[field] = fmt.Sprintf("%s is required when %s is %s", field, jsonName(params[0]), params[1])
				continue
			}
			fields[field] = field + " is required"
		case "provider":
			fields[field] = "at least one of is_google or is_outlook must be true"
		case "gtefield":
			fields[field] = fmt.Sprintf("%s must not be before %s", field, err.Param())
		default:
			fields[field] = field + " is invalid"
		}
	}
	return &ValidationError{Errors: fields}
}

func jsonName(structField string) string {
	f, ok := reflect.TypeOf(MeetingsRequest{}).FieldByName(structField)
	if !ok {
		return structField
	}
	return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
}

func validateMeetingsRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(MeetingsRequest)
	if !req.IsGoogle && !req.IsOutlook {
		sl.ReportError(req.IsGoogle, "providers", "IsGoogle", "provider", "")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.EndOfDay().Before(req.StartDate.Time) {
		sl.ReportError(req.EndDate, "end_date", "EndDate", "gtefield", "start_date")
	}
}
