package auditerrors

import (
	"net/http"

	"dataguard-hris/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrAuditLogNotFound = apperror.New(
		apperror.CodeNotFound,
		"audit log not found",
		http.StatusNotFound,
	)
)
