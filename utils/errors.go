package utils

import (
	"errors"
	"net/http"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrConnectivity  = errors.New("store unreachable")
	ErrNotFound      = errors.New("document not found")
	ErrPermission    = errors.New("insufficient store privileges")
	ErrValidation    = errors.New("invalid input")
)

// StatusForError maps the error taxonomy to the HTTP status used in responses.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrConnectivity):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// InternalCodeForError picks the internal error code reported alongside a setup failure.
func InternalCodeForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return REPORTS_INVALID_REQUEST_DATA
	case errors.Is(err, ErrConnectivity):
		return CANNOT_CONNECT_TO_MONGODB
	case errors.Is(err, ErrConfiguration):
		return INVALID_CONFIGURATION
	case errors.Is(err, ErrPermission):
		return STORE_PERMISSION_DENIED
	default:
		return ERROR_TO_FIND_IN_MONGODB
	}
}
