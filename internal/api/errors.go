package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/bpfuel/internal/questionnaire"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// abortBindError distinguishes oversized bodies from malformed ones.
func abortBindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		abortError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large")
		return
	}
	_ = c.Error(err)
	abortError(c, http.StatusBadRequest, "invalid_payload", err.Error())
}

// abortQuestionnaireError reports field-level problems as 422 and anything
// else as a bad payload.
func abortQuestionnaireError(c *gin.Context, err error) {
	var verr *questionnaire.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
		return
	}
	abortBindError(c, err)
}
