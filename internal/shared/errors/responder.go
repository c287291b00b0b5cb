package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond sends an envelope as a JSON response.
func Respond(c *gin.Context, envelope Envelope) {
	c.JSON(envelope.Status, envelope.Body())
}

// RespondError converts a standard error to an envelope and responds.
// Unknown errors become 500 with the raw message; nothing is swallowed.
func RespondError(c *gin.Context, err error) {
	var envelope Envelope
	if errors.As(err, &envelope) {
		Respond(c, envelope)
		return
	}
	Respond(c, Internal(err.Error()))
}

// HTTPStatusFromError extracts the HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var envelope Envelope
	if errors.As(err, &envelope) {
		return envelope.Status
	}
	return http.StatusInternalServerError
}
