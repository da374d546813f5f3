package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oniqq60/staff_control/internal/apperr"
	"github.com/Oniqq60/staff_control/internal/dto"
)

const exposeKey = "respond.expose"

// StatusMap overrides the default status of selected error kinds for one route.
type StatusMap map[apperr.Kind]int

func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Page(c *gin.Context, message string, data any, p dto.Pagination) {
	c.JSON(http.StatusOK, dto.Response{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

// Fail aborts the chain with an error envelope.
func Fail(c *gin.Context, status int, message string, fields ...apperr.FieldError) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, dto.Response{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

// ExposeErrors makes Error return the cause of a 500 in the "stack" field.
// Mount it outside production only.
func ExposeErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeKey, true)
		c.Next()
	}
}

// Error translates err into an envelope. Anything that is not an
// *apperr.Error is reported as a generic 500 and the cause is kept on the
// gin context for the request logger.
func Error(c *gin.Context, err error, overrides ...StatusMap) {
	_ = c.Error(err)

	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		resp := dto.Response{Success: false, Message: "Internal server error"}
		if c.GetBool(exposeKey) {
			resp.Stack = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		return
	}

	status := e.Kind.Status()
	for _, o := range overrides {
		if s, ok := o[e.Kind]; ok {
			status = s
		}
	}
	Fail(c, status, e.Message, e.Fields...)
}
