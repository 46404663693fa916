package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/pkg/response"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, application.ErrProjectNotFound),
		errors.Is(err, application.ErrTicketNotFound),
		errors.Is(err, application.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, application.ErrProjectConflict),
		errors.Is(err, application.ErrUserConflict):
		status = http.StatusConflict
	case errors.Is(err, application.ErrInvalidKey),
		errors.Is(err, application.ErrInvalidTicket),
		errors.Is(err, application.ErrInvalidManager),
		errors.Is(err, application.ErrEmptyComment):
		status = http.StatusBadRequest
	case errors.Is(err, application.ErrAvatarStoreMissing):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, response.ErrorResponse{Error: err.Error()})
}

// respondBindError turns validator failures into readable messages for the client.
func respondBindError(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", field)
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		msgs = append(msgs, msg)
	}
	c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: strings.Join(msgs, "; ")})
}
