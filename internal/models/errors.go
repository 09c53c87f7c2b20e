package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds surfaced by the dashboard. None of them is retried automatically.
var (
	ErrNotConfigured = errors.New("service_not_configured")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNetwork       = errors.New("network_unavailable")
	ErrSend          = errors.New("send_failed")
	ErrGeneration    = errors.New("generation_failed")

	ErrInvalidContact  = errors.New("invalid_contact")
	ErrInvalidSettings = errors.New("invalid_settings")
	ErrContactNotFound = errors.New("contact_not_found")
	ErrInvalidMessage  = errors.New("invalid_message")
)

// AppError carries the failure kind together with the transport detail.
type AppError struct {
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *AppError) Is(target error) bool {
	return target == e.Kind
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind error, statusCode int, message string, err error) *AppError {
	return &AppError{Kind: kind, StatusCode: statusCode, Message: message, Err: err}
}

// HTTPStatus maps an error to the status code used by the local dashboard API.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotConfigured):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidContact), errors.Is(err, ErrInvalidSettings), errors.Is(err, ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrContactNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSend):
		return http.StatusBadGateway
	case errors.Is(err, ErrNetwork):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
