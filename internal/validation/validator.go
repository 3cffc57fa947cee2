// Package validation checks inbound requests with go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"travel_planner/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// RequestError collects every failed rule of one request. It matches
// domain.ErrInvalidRequest under errors.Is.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid request"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}

func (e *RequestError) Is(target error) bool { return target == domain.ErrInvalidRequest }

// GetValidator returns the process-wide validator with the travel rules registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("budget_tier", func(fl validator.FieldLevel) bool {
			_, ok := domain.ParseBudgetTier(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, ok := domain.ParseCategory(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("half_step", func(fl validator.FieldLevel) bool {
			x := fl.Field().Float() * 2
			return x == math.Trunc(x)
		})
		validate = v
	})
	return validate
}

// ValidateStruct returns nil or a *RequestError.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &RequestError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}
	out := &RequestError{Fields: make([]FieldError, len(ves))}
	for i, fe := range ves {
		out.Fields[i] = FieldError{Field: fieldPath(fe), Tag: fe.Tag(), Message: translate(fe)}
	}
	return out
}

// fieldPath drops the struct name: "RatingSubmission.scores[culture]" -> "scores[culture]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var messageTemplates = map[string]string{
	"required":    "%s is required",
	"budget_tier": "%s must be one of Budget, Mid-range, Luxury",
	"category":    "%s is not a known category",
	"half_step":   "%s must be a multiple of 0.5",
}

var messageWithParam = map[string]string{
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
	"max": "%s must be at most %s long",
	"min": "%s must have at least %s entries",
}

func translate(fe validator.FieldError) string {
	field := fieldPath(fe)
	if t, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(t, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
