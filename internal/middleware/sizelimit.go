package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
)

// SizeLimit rejects bodies larger than maxBytes. Chunked bodies are capped while read.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			appErr := apperrors.TooLarge(maxBytes, nil)
			c.AbortWithStatusJSON(appErr.StatusCode(), appErr)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
