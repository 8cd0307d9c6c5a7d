package performanceerrors

import (
	"net/http"

	"dataguard-hris/internal/shared/apperror"
)

var (
	ErrCycleNotFound = apperror.New(
		apperror.CodeNotFound,
		"performance cycle not found",
		http.StatusNotFound,
	)
	ErrGoalNotFound = apperror.New(
		apperror.CodeNotFound,
		"goal not found",
		http.StatusNotFound,
	)
	ErrInvalidCycleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid cycle id",
		http.StatusBadRequest,
	)
	ErrInvalidGoalID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid goal id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before end_date",
		http.StatusBadRequest,
	)
	ErrInvalidProgress = apperror.New(
		apperror.CodeInvalidInput,
		"progress must be between 0 and 100",
		http.StatusBadRequest,
	)
	ErrInvalidCycleTransition = apperror.New(
		apperror.CodeInvalidState,
		"cycle status can only move forward",
		http.StatusConflict,
	)
	ErrCycleNotActive = apperror.New(
		apperror.CodeInvalidState,
		"goals can only be created in an active cycle",
		http.StatusConflict,
	)
	ErrCycleClosed = apperror.New(
		apperror.CodeInvalidState,
		"cycle is closed for goal updates",
		http.StatusConflict,
	)
	ErrNotGoalOwner = apperror.New(
		apperror.CodeForbidden,
		"only the goal owner may update it",
		http.StatusForbidden,
	)
)
