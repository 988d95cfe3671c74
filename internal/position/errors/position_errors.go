package positionerrors

import (
	"net/http"

	"go-orgstructure/internal/shared/apperror"
)

var (
	ErrInvalidPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid position id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidReportsTo = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reports_to_position_id",
		http.StatusBadRequest,
	)
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"position not found",
		http.StatusNotFound,
	)
	ErrPositionCodeExists = apperror.New(
		apperror.CodeConflict,
		"position code already exists",
		http.StatusConflict,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrDepartmentInactive = apperror.New(
		apperror.CodeInvalidState,
		"department is not active",
		http.StatusBadRequest,
	)
	ErrParentPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"reports-to position not found",
		http.StatusNotFound,
	)
	ErrParentPositionInactive = apperror.New(
		apperror.CodeInvalidState,
		"a position may not report to an inactive position",
		http.StatusBadRequest,
	)
	ErrSelfReference = apperror.New(
		apperror.CodeInvalidInput,
		"a position cannot report to itself",
		http.StatusBadRequest,
	)
	ErrReportingCycle = apperror.New(
		apperror.CodePreconditionFailed,
		"reporting change would create a cycle in the hierarchy",
		http.StatusPreconditionFailed,
	)
	ErrPositionAlreadyInactive = apperror.New(
		apperror.CodeInvalidState,
		"position is already inactive",
		http.StatusBadRequest,
	)
	ErrPositionAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"position is already active",
		http.StatusBadRequest,
	)
	ErrPositionIsDepartmentHead = apperror.New(
		apperror.CodePreconditionFailed,
		"cannot deactivate position: it is a department's head position",
		http.StatusPreconditionFailed,
	)
)
