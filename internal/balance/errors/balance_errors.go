package balanceerrors

import (
	"net/http"

	"dataguard-hris/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrUnknownBucket = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown leave balance bucket",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Days to deduct must be at least 1",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeConflict,
		"Leave balance is insufficient for this request",
		http.StatusConflict,
	)
)
