package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/dto"
)

const dateLayout = "2006-01-02"

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Schema lets a request struct supply its own messages keyed "field.tag".
type Schema interface {
	ValidationMessages() map[string]string
}

// Emptiable is implemented by update bodies that must carry at least one field.
type Emptiable interface {
	IsEmpty() bool
}

type Validator struct {
	validate *validator.Validate
	log      *zap.Logger
}

func New(log *zap.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return "-"
			}
			if name != "" {
				return name
			}
		}
		return ""
	})

	v.RegisterCustomTypeFunc(nullableValue[string], dto.Nullable[string]{})

	mustRegister(v, "date", isDate)
	mustRegister(v, "int_min", intMin)
	mustRegister(v, "int_max", intMax)
	mustRegister(v, "max_bytes", maxBytes)

	return &Validator{validate: v, log: log}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// Struct validates obj and returns one FieldError per failed rule.
func (v *Validator) Struct(obj any) []apperr.FieldError {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperr.FieldError{{Message: err.Error()}}
	}

	msgs := messagesOf(obj)
	out := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperr.FieldError{
			Field:   fe.Field(),
			Message: messageFor(msgs, fe.Field(), fe.Tag(), fe.Param()),
		})
	}
	return out
}

// Var validates a single value against tag.
func (v *Validator) Var(value any, tag string) bool {
	return v.validate.Var(value, tag) == nil
}

func messagesOf(obj any) map[string]string {
	if s, ok := obj.(Schema); ok {
		return s.ValidationMessages()
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		if s, ok := rv.Elem().Interface().(Schema); ok {
			return s.ValidationMessages()
		}
	}
	return nil
}

func messageFor(msgs map[string]string, field, tag, param string) string {
	if msg, ok := msgs[field+"."+tag]; ok {
		return msg
	}
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email format"
	case "min", "int_min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "int_max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return field + " must be positive"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "number":
		return field + " must be a valid number"
	case "date":
		return field + " must be a valid date in format YYYY-MM-DD"
	case "type":
		return field + " has an invalid type"
	default:
		return field + " is invalid"
	}
}

func nullableValue[T any](field reflect.Value) any {
	n, ok := field.Interface().(dto.Nullable[T])
	if !ok || !n.Set || !n.Valid {
		return nil
	}
	return &n.Value
}

func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func intMin(fl validator.FieldLevel) bool {
	n, bound, ok := intParam(fl)
	return ok && n >= bound
}

func intMax(fl validator.FieldLevel) bool {
	n, bound, ok := intParam(fl)
	return ok && n <= bound
}

// maxBytes bounds the encoded length; max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	bound, err := strconv.Atoi(fl.Param())
	return err == nil && len(fl.Field().String()) <= bound
}

func intParam(fl validator.FieldLevel) (int64, int64, bool) {
	bound, err := strconv.ParseInt(fl.Param(), 10, 64)
	if err != nil {
		return 0, 0, false
	}
	// out of range saturates so that huge values fail int_max, not int_min
	n, err := strconv.ParseInt(fl.Field().String(), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, 0, false
	}
	return n, bound, true
}
