package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolah-web/core/internal/pkg/apperr"
)

// Status maps a service error onto an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrNoCapacity):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrDuplicate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Errors renders the last error a handler attached with c.Error. Server
// faults get a generic message; the detail stays in the log.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := Status(err)
		body := gin.H{"ok": 0, "code": status, "message": err.Error()}

		var ve *apperr.ValidationError
		var de *apperr.DuplicateError
		var ce *apperr.ConflictError
		switch {
		case errors.As(err, &ve):
			body["field"] = ve.Field
		case errors.As(err, &de):
			body["field"] = de.Field
		case errors.As(err, &ce):
			ids := make([]uint, 0, len(ce.Conflicts))
			for _, s := range ce.Conflicts {
				ids = append(ids, s.ID)
			}
			body["conflicts"] = ids
		}
		if status >= http.StatusInternalServerError {
			body["message"] = http.StatusText(status)
		}
		c.JSON(status, body)
	}
}
