package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/cadastro-saude/patient-registry/pkg/errors"
	"github.com/cadastro-saude/patient-registry/pkg/validator"
)

// MessageResponse is the body of successful deletes
type MessageResponse struct {
	Message string `json:"message"`
}

// Fail records err for the error middleware and stops the chain
func Fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// BindJSON binds and validates the body, failing the request with a validation error.
// A body cut off by the size limit fails with 413 instead.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Fail(c, apperrors.TooLarge(tooLarge.Limit, err))
			return false
		}
		Fail(c, apperrors.Validation(validator.Describe(err), err))
		return false
	}
	return true
}

// ParseID reads the :id path parameter. A malformed id cannot name an existing row.
func ParseID(c *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Fail(c, apperrors.NotFound(resource, err))
		return uuid.Nil, false
	}
	return id, true
}

func Deleted(c *gin.Context, resource string) {
	c.JSON(http.StatusOK, MessageResponse{Message: resource + " deleted"})
}
