package profileerrors

import (
	"net/http"

	"dataguard-hris/internal/shared/apperror"
)

var (
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"Staff profile not found",
		http.StatusNotFound,
	)
	ErrStaffAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff profile with the same email already exists",
		http.StatusConflict,
	)
	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Staff number already exists",
		http.StatusConflict,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager ID",
		http.StatusBadRequest,
	)
	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Manager profile not found",
		http.StatusBadRequest,
	)
	ErrCategoryDetailMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Detail payload does not match the staff category",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrCorrectionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Profile correction not found",
		http.StatusNotFound,
	)
	ErrCorrectionNotPending = apperror.New(
		apperror.CodeInvalidState,
		"Profile correction has already been reviewed",
		http.StatusConflict,
	)
	ErrCorrectionFieldNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"Correction contains a field that cannot be changed this way",
		http.StatusBadRequest,
	)
	ErrCorrectionEmpty = apperror.New(
		apperror.CodeInvalidInput,
		"Correction must change at least one field",
		http.StatusBadRequest,
	)
	ErrDeclineReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"decline_reason is required when rejecting a correction",
		http.StatusBadRequest,
	)
)
