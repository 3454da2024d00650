// Package validation checks decoded request bodies against struct-tag
// schemas and reports failures as a list of field messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/devconnector/internal/timex"
	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule. Param is the JSON field name and is empty
// for errors not tied to a field.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// Errors is a validation failure carrying every failed field.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// New builds a single-message Errors value.
func New(msg string) Errors {
	return Errors{{Msg: msg}}
}

// Validator wraps a configured validator.Validate. Messages come from the
// `msg` struct tag; fields without one get a generic message.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// isodate accepts what timex.ParseDate accepts.
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := timex.ParseDate(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// Struct validates s and returns Errors listing each failed field once, in
// declaration order.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(Errors, 0, len(verrs))
	seen := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		out = append(out, FieldError{Msg: message(t, fe), Param: fe.Field()})
	}
	return out
}

func message(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return fe.Field() + " is invalid"
}
