package onboardingerrors

import (
	"net/http"

	"dataguard-hris/internal/shared/apperror"
)

var (
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"checklist item not found",
		http.StatusNotFound,
	)
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"onboarding task not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidItemID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid checklist item id",
		http.StatusBadRequest,
	)
	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task id",
		http.StatusBadRequest,
	)
	ErrNotTaskOwner = apperror.New(
		apperror.CodeForbidden,
		"only the assignee may toggle this task",
		http.StatusForbidden,
	)
	ErrTaskAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"item is already assigned to this user",
		http.StatusConflict,
	)
)
