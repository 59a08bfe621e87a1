package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursecraft/coursecraft-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	body := ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	}
	// Server-side failures carry the underlying cause for the caller.
	if status >= http.StatusInternalServerError && err != nil {
		body.Error.Details = msg
	}
	c.JSON(status, body)
}

// RespondAPIError maps a service error onto the envelope using its embedded
// status and code, defaulting to a 500 internal_error.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
