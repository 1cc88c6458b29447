package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

// ErrorHandler renders the last error recorded with c.Error as {error, details?}.
// Details of store and internal errors are only sent in development.
func ErrorHandler(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := apperrors.From(c.Errors.Last().Err)
		status := appErr.StatusCode()

		event := log.Warn()
		if status >= 500 {
			event = log.Error()
		}
		event.
			Err(appErr.Err).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("kind", appErr.Kind.String()).
			Int("status", status).
			Msg(appErr.Message)

		if c.Writer.Written() {
			return
		}

		body := apperrors.AppError{Message: appErr.Message, Details: appErr.Details}
		if appErr.Sensitive() {
			body.Details = ""
			if development && appErr.Err != nil {
				body.Details = appErr.Err.Error()
			}
		}
		c.JSON(status, body)
	}
}
