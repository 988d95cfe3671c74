package assignmenterrors

import (
	"net/http"

	"go-orgstructure/internal/shared/apperror"
)

var (
	ErrInvalidAssignmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignment id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid position id",
		http.StatusBadRequest,
	)
	ErrInvalidChangeRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid change_request_id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"assignment not found",
		http.StatusNotFound,
	)
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"position not found",
		http.StatusNotFound,
	)
	ErrPositionInactive = apperror.New(
		apperror.CodeInvalidState,
		"cannot assign to an inactive position",
		http.StatusBadRequest,
	)
	ErrDuplicateAssignment = apperror.New(
		apperror.CodeConflict,
		"employee already holds an active assignment to this position",
		http.StatusConflict,
	)
	ErrConcurrentAssignment = apperror.New(
		apperror.CodeConflict,
		"another assignment for this employee is being processed",
		http.StatusConflict,
	)
	ErrAssignmentAlreadyEnded = apperror.New(
		apperror.CodeInvalidState,
		"assignment is already ended",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
)
