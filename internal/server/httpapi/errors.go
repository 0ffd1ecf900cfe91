package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// errorBody is the shape of every error response.
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{common.ErrUsernameTaken, http.StatusConflict},
	{common.ErrEmailTaken, http.StatusConflict},
	{common.ErrAuthenticationFailed, http.StatusUnauthorized},
	{common.ErrInvalidCredentials, http.StatusUnauthorized},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrInvalidURL, http.StatusBadRequest},
	{common.ErrorValidation, http.StatusBadRequest},
}

// statusFor maps a service error onto a status code and a client-safe message.
func statusFor(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func abortStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", routeOf(c), "error", err)
	}
	abortStatus(c, status, message)
}

// writeBindError reports a malformed or invalid request body or query.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		abortStatus(c, http.StatusBadRequest, strings.Join(msgs, "; "))
		return
	}
	abortStatus(c, http.StatusBadRequest, "malformed request")
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "searchterm":
		return fmt.Sprintf("%s must be valid UTF-8 text", name)
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits, '_' and '-'", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
