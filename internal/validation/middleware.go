package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/respond"
)

const (
	ctxBody  = "validation.body"
	ctxQuery = "validation.query"
	ctxID    = "validation.id"

	failedMessage = "Validation failed"
	emptyUpdate   = "At least one field must be provided for update"
)

var (
	errUnexpectedData = errors.New("request body contains unexpected data")
	errBodyTooLarge   = errors.New("request body too large")
)

// Body decodes the JSON body into T and validates it. With strict set,
// unknown keys and bodies without any field are rejected.
func Body[T any](v *Validator, strict bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if fields, err := decodeJSON(c.Request, &req, strict); err != nil {
			if errors.Is(err, errBodyTooLarge) {
				respond.Fail(c, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			v.reject(c, "body", fields)
			return
		}

		if fields := v.Struct(&req); len(fields) > 0 {
			v.reject(c, "body", fields)
			return
		}

		if strict {
			if e, ok := any(req).(Emptiable); ok && e.IsEmpty() {
				v.reject(c, "body", []apperr.FieldError{{Message: emptyUpdate}})
				return
			}
		}

		c.Set(ctxBody, req)
		c.Next()
	}
}

// Query binds the query string into T and validates it.
func Query[T any](v *Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q T
		if err := c.ShouldBindQuery(&q); err != nil {
			v.reject(c, "query", []apperr.FieldError{{Field: "query", Message: err.Error()}})
			return
		}
		if fields := v.Struct(&q); len(fields) > 0 {
			v.reject(c, "query", fields)
			return
		}
		c.Set(ctxQuery, q)
		c.Next()
	}
}

// PathID requires the named path parameter to be a positive integer.
// resource is used in messages, e.g. "Employee".
func PathID(v *Validator, param, resource string) gin.HandlerFunc {
	invalid := fmt.Sprintf("%s ID must be a valid number", resource)
	zero := fmt.Sprintf("Valid %s ID is required", strings.ToLower(resource))

	return func(c *gin.Context) {
		raw := c.Param(param)
		if !v.Var(raw, "required,number") {
			v.reject(c, "params", []apperr.FieldError{{Field: param, Message: invalid}})
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			v.reject(c, "params", []apperr.FieldError{{Field: param, Message: invalid}})
			return
		}
		if id <= 0 {
			respond.Fail(c, http.StatusBadRequest, zero)
			return
		}
		c.Set(ctxID, id)
		c.Next()
	}
}

func BodyFrom[T any](c *gin.Context) T {
	v, _ := c.Get(ctxBody)
	req, _ := v.(T)
	return req
}

func QueryFrom[T any](c *gin.Context) T {
	v, _ := c.Get(ctxQuery)
	q, _ := v.(T)
	return q
}

func IDFrom(c *gin.Context) int64 {
	return c.GetInt64(ctxID)
}

func (v *Validator) reject(c *gin.Context, source string, fields []apperr.FieldError) {
	v.log.Warn("validation failed",
		zap.String("source", source),
		zap.String("path", c.FullPath()),
		zap.Any("errors", fields),
	)
	respond.Fail(c, http.StatusBadRequest, failedMessage, fields...)
}

// decodeJSON treats a missing body as {} so required fields are reported
// individually.
func decodeJSON(r *http.Request, dst any, strict bool) ([]apperr.FieldError, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if strict {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return decodeFields(err, messagesOf(dst))
	}

	if decoder.More() {
		return []apperr.FieldError{{Message: "Request body contains unexpected data"}}, errUnexpectedData
	}
	return nil, nil
}

func decodeFields(err error, msgs map[string]string) ([]apperr.FieldError, error) {
	var (
		maxErr    *http.MaxBytesError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &maxErr):
		return nil, errBodyTooLarge
	case errors.As(err, &typeErr):
		field := typeErr.Field
		return []apperr.FieldError{{Field: field, Message: typeMessage(msgs, field)}}, err
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []apperr.FieldError{{Message: "Malformed JSON body"}}, err
	}

	if key, ok := unknownField(err); ok {
		return []apperr.FieldError{{Field: key, Message: "Unrecognized key"}}, err
	}
	return []apperr.FieldError{{Message: "Malformed JSON body"}}, err
}

func typeMessage(msgs map[string]string, field string) string {
	if msg, ok := msgs[field+".type"]; ok {
		return msg
	}
	return messageFor(nil, field, "type", "")
}

// unknownField parses the error DisallowUnknownFields produces,
// `json: unknown field "name"`.
func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	key, uerr := strconv.Unquote(strings.TrimPrefix(msg, prefix))
	if uerr != nil {
		return "", false
	}
	return key, true
}
