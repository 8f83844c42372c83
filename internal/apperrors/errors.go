// Package apperrors defines the error taxonomy shared by every API handler.
// Client-facing errors render as {code, message, status} JSON; anything that
// is not an *AppError surfaces as a 500.
package apperrors

import "net/http"

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusText(code),
	}
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

func Authentication(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Internal(message string) *AppError {
	return New(http.StatusInternalServerError, message)
}
