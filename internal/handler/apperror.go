package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidMonth  = &AppError{http.StatusBadRequest, "INVALID_MONTH", "Month must be 1-12 or an English month name"}
	ErrInvalidDate   = &AppError{http.StatusBadRequest, "INVALID_DATE", "Date must be a valid calendar date"}
	ErrInvalidKind   = &AppError{http.StatusBadRequest, "INVALID_TYPE", "Type must be income or expense"}
	ErrInvalidAmount = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrEmailTaken    = &AppError{http.StatusConflict, "USER_ALREADY_EXISTS", "A user with this email already exists"}
)
