package departmenterrors

import (
	"net/http"

	"go-orgstructure/internal/shared/apperror"
)

var (
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidHeadPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid head_position_id",
		http.StatusBadRequest,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrDepartmentCodeExists = apperror.New(
		apperror.CodeConflict,
		"department code already exists",
		http.StatusConflict,
	)
	ErrDepartmentNameExists = apperror.New(
		apperror.CodeConflict,
		"department name already exists",
		http.StatusConflict,
	)
	ErrDepartmentAlreadyInactive = apperror.New(
		apperror.CodeInvalidState,
		"department is already inactive",
		http.StatusBadRequest,
	)
	ErrDepartmentAlreadyActive = apperror.New(
		apperror.CodeInvalidState,
		"department is already active",
		http.StatusBadRequest,
	)
	ErrHeadPositionNotInDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"head position must be an active position of this department",
		http.StatusBadRequest,
	)
)
