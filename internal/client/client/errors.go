package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/linkfolio/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotSignedIn  = errors.New("not signed in")
)

// APIError is a non-2xx answer from the server, decoded from its error body.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Kind       string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
}

// Unwrap lets callers match well-known statuses with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest:
		return common.ErrorValidation
	}
	return nil
}
