package changerequesterrors

import (
	"net/http"

	"go-orgstructure/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid change request id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidTargetDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid target_department_id",
		http.StatusBadRequest,
	)
	ErrInvalidTargetPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid target_position_id",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"unknown change request status",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVED or REJECTED",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"change request not found",
		http.StatusNotFound,
	)
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"an open change request of this type already exists for this target",
		http.StatusConflict,
	)
	ErrDuplicateRequestNumber = apperror.New(
		apperror.CodeConflict,
		"change request number already exists",
		http.StatusConflict,
	)
	ErrRequestNotEditable = apperror.New(
		apperror.CodeInvalidState,
		"change request can only be updated while in DRAFT or SUBMITTED status",
		http.StatusBadRequest,
	)
	ErrRequestNotCancelable = apperror.New(
		apperror.CodeInvalidState,
		"change request can no longer be canceled",
		http.StatusBadRequest,
	)
	ErrDuplicateDecision = apperror.New(
		apperror.CodeConflict,
		"approver has already decided on this change request",
		http.StatusConflict,
	)
	ErrCommentsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comments are required when rejecting a change request",
		http.StatusBadRequest,
	)
)
