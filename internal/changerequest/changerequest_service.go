package changerequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-orgstructure/internal/audit"
	changerequesterrors "go-orgstructure/internal/changerequest/errors"
	"go-orgstructure/internal/events"
	"go-orgstructure/internal/notification"
	"go-orgstructure/internal/shared/apperror"
	"go-orgstructure/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestCounterType = "structure_change_request"

//go:generate mockgen -source=changerequest_service.go -destination=mock/changerequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateChangeRequestRequest) (ChangeRequestResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]ChangeRequestResponse, error)
	GetByID(ctx context.Context, id string) (ChangeRequestResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateChangeRequestRequest) (ChangeRequestResponse, error)
	Cancel(ctx context.Context, actorID, id string) (ChangeRequestResponse, error)
	SubmitDecision(ctx context.Context, actorID, id string, req DecisionRequest) (ChangeRequestResponse, error)
	ListApprovals(ctx context.Context, id string) ([]ApprovalResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counters counter.Repository
	recorder *audit.Recorder
	notifier notification.Notifier
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counters counter.Repository,
	recorder *audit.Recorder,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("changerequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("changerequest.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counters: counters,
		recorder: recorder,
		notifier: notifier,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateChangeRequestRequest) (ChangeRequestResponse, error) {
	s.logger.Debug("create change request",
		zap.String("actor_id", actorID),
		zap.String("request_type", req.RequestType),
	)

	actor, err := uuid.Parse(actorID)
	if err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidActorID
	}

	targetDepartmentID, targetPositionID, err := parseTargets(req.TargetDepartmentID, req.TargetPositionID)
	if err != nil {
		return ChangeRequestResponse{}, err
	}

	duplicate, err := s.repo.ExistsNonTerminal(ctx, actorID, req.RequestType, targetDepartmentID, targetPositionID)
	if err != nil {
		s.logger.Error("duplicate request check failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}
	if duplicate {
		return ChangeRequestResponse{}, changerequesterrors.ErrDuplicateRequest
	}

	seq, err := s.counters.GetNextValue(ctx, requestCounterType)
	if err != nil {
		s.logger.Error("request number generation failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}

	now := time.Now().UTC()
	cr := &StructureChangeRequest{
		ID:                    uuid.New(),
		RequestNumber:         fmt.Sprintf("SCR-%05d", seq),
		RequestedByEmployeeID: actor,
		RequestType:           req.RequestType,
		TargetDepartmentID:    targetDepartmentID,
		TargetPositionID:      targetPositionID,
		Details:               req.Details,
		Reason:                req.Reason,
		Status:                StatusSubmitted,
		SubmittedByEmployeeID: actor,
		SubmittedAt:           now,
	}

	if err := s.repo.Create(ctx, cr); err != nil {
		s.logger.Error("create change request failed", zap.Error(err))
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}

	s.recorder.Record(ctx, audit.Entry{
		Action:      "CHANGE_REQUEST_SUBMITTED",
		EntityType:  "structure_change_request",
		EntityID:    cr.ID.String(),
		PerformedBy: actorID,
		Summary:     "Change request " + cr.RequestNumber + " submitted",
		After:       cr,
	})
	notification.BestEffort(s.logger, "notify change request submitted",
		s.notifier.NotifyChangeRequestSubmitted(ctx, events.ChangeRequestSubmittedEvent{
			RequestID:     cr.ID.String(),
			RequestNumber: cr.RequestNumber,
			RequestedBy:   actorID,
			RequestType:   cr.RequestType,
			TargetID:      targetID(cr),
		}))

	s.logger.Info("change request created",
		zap.String("request_id", cr.ID.String()),
		zap.String("request_number", cr.RequestNumber),
	)
	return mapToResponse(*cr), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]ChangeRequestResponse, error) {
	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list change requests failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ChangeRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidRequestID
	}

	cr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*cr), nil
}

// Update allows the requester to amend an open request. Status may be set
// directly as an administrative override, but only to a known value.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdateChangeRequestRequest) (ChangeRequestResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidRequestID
	}

	cr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}
	if !IsEditable(cr.Status) {
		return ChangeRequestResponse{}, changerequesterrors.ErrRequestNotEditable
	}

	before := *cr

	if req.TargetDepartmentID != nil || req.TargetPositionID != nil {
		targetDepartmentID, targetPositionID, err := parseTargets(req.TargetDepartmentID, req.TargetPositionID)
		if err != nil {
			return ChangeRequestResponse{}, err
		}
		if req.TargetDepartmentID != nil {
			cr.TargetDepartmentID = targetDepartmentID
		}
		if req.TargetPositionID != nil {
			cr.TargetPositionID = targetPositionID
		}
	}
	if req.Details != nil {
		cr.Details = *req.Details
	}
	if req.Reason != nil {
		cr.Reason = *req.Reason
	}
	if req.Status != nil {
		status := strings.ToUpper(*req.Status)
		if !IsKnownStatus(status) {
			return ChangeRequestResponse{}, changerequesterrors.ErrInvalidStatus
		}
		cr.Status = status
	}

	if err := s.repo.Update(ctx, cr); err != nil {
		s.logger.Error("update change request failed", zap.Error(err))
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}

	s.recorder.Record(ctx, audit.Entry{
		Action:      "CHANGE_REQUEST_UPDATED",
		EntityType:  "structure_change_request",
		EntityID:    cr.ID.String(),
		PerformedBy: actorID,
		Summary:     "Change request " + cr.RequestNumber + " updated",
		Before:      before,
		After:       cr,
	})

	s.logger.Info("change request updated", zap.String("request_id", id))
	return mapToResponse(*cr), nil
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (ChangeRequestResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidRequestID
	}

	cr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}
	if !IsCancelable(cr.Status) {
		return ChangeRequestResponse{}, changerequesterrors.ErrRequestNotCancelable
	}

	before := *cr
	cr.Status = StatusCanceled

	if err := s.repo.Update(ctx, cr); err != nil {
		s.logger.Error("cancel change request failed", zap.Error(err))
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}

	s.recorder.Record(ctx, audit.Entry{
		Action:      "CHANGE_REQUEST_CANCELED",
		EntityType:  "structure_change_request",
		EntityID:    cr.ID.String(),
		PerformedBy: actorID,
		Summary:     "Change request " + cr.RequestNumber + " canceled",
		Before:      before,
		After:       cr,
	})
	notification.BestEffort(s.logger, "notify change request processed",
		s.notifier.NotifyChangeRequestProcessed(ctx, events.ChangeRequestProcessedEvent{
			RequestID:     cr.ID.String(),
			RequestNumber: cr.RequestNumber,
			RequestedBy:   cr.RequestedByEmployeeID.String(),
			Status:        cr.Status,
			DecidedBy:     actorID,
		}))

	s.logger.Info("change request canceled", zap.String("request_id", id))
	return mapToResponse(*cr), nil
}

// SubmitDecision records one approval decision and finalizes the request:
// a single APPROVED or REJECTED closes it, there is no quorum.
func (s *service) SubmitDecision(ctx context.Context, actorID, id string, req DecisionRequest) (ChangeRequestResponse, error) {
	s.logger.Debug("submit decision",
		zap.String("actor_id", actorID),
		zap.String("request_id", id),
		zap.String("decision", req.Decision),
	)

	approver, err := uuid.Parse(actorID)
	if err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidActorID
	}
	requestID, err := uuid.Parse(id)
	if err != nil {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidRequestID
	}

	decision := strings.ToUpper(req.Decision)
	if decision != DecisionApproved && decision != DecisionRejected {
		return ChangeRequestResponse{}, changerequesterrors.ErrInvalidDecision
	}
	if decision == DecisionRejected && strings.TrimSpace(req.Comments) == "" {
		return ChangeRequestResponse{}, changerequesterrors.ErrCommentsRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit decision begin tx failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cr, err := qtx.FindByID(ctx, id)
	if err != nil {
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}
	// Cek duplikasi dulu: approver yang sudah memutuskan tetap dapat
	// Conflict meskipun keputusannya sendiri sudah memfinalisasi request.
	decided, err := qtx.HasDecidedApproval(ctx, id, actorID)
	if err != nil {
		s.logger.Error("duplicate decision check failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}
	if decided {
		return ChangeRequestResponse{}, changerequesterrors.ErrDuplicateDecision
	}

	if !IsActionable(cr.Status) {
		return ChangeRequestResponse{}, apperror.Newf(
			apperror.CodeInvalidState,
			http.StatusBadRequest,
			"change request is not actionable in status %s", cr.Status,
		)
	}

	before := *cr
	now := time.Now().UTC()
	approval := &StructureApproval{
		ID:                 uuid.New(),
		ChangeRequestID:    requestID,
		ApproverEmployeeID: approver,
		Decision:           decision,
		DecidedAt:          &now,
		Comments:           req.Comments,
	}
	if err := qtx.CreateApproval(ctx, approval); err != nil {
		s.logger.Error("create approval failed", zap.Error(err))
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}

	switch decision {
	case DecisionApproved:
		cr.Status = StatusApproved
	case DecisionRejected:
		cr.Status = StatusRejected
	}
	if err := qtx.Update(ctx, cr); err != nil {
		s.logger.Error("finalize change request failed", zap.Error(err))
		return ChangeRequestResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit decision commit failed", zap.Error(err))
		return ChangeRequestResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		Action:      "CHANGE_REQUEST_" + cr.Status,
		EntityType:  "structure_change_request",
		EntityID:    cr.ID.String(),
		PerformedBy: actorID,
		Summary:     "Change request " + cr.RequestNumber + " " + strings.ToLower(cr.Status),
		Before:      before,
		After:       cr,
	})
	notification.BestEffort(s.logger, "notify change request processed",
		s.notifier.NotifyChangeRequestProcessed(ctx, events.ChangeRequestProcessedEvent{
			RequestID:     cr.ID.String(),
			RequestNumber: cr.RequestNumber,
			RequestedBy:   cr.RequestedByEmployeeID.String(),
			Status:        cr.Status,
			DecidedBy:     actorID,
		}))

	s.logger.Info("decision recorded",
		zap.String("request_id", id),
		zap.String("decision", decision),
		zap.String("status", cr.Status),
	)
	return mapToResponse(*cr), nil
}

func (s *service) ListApprovals(ctx context.Context, id string) ([]ApprovalResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, changerequesterrors.ErrInvalidRequestID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, changerequesterrors.ErrRequestNotFound
		}
		return nil, err
	}

	approvals, err := s.repo.FindApprovalsByRequest(ctx, id)
	if err != nil {
		s.logger.Error("list approvals failed", zap.Error(err))
		return nil, err
	}
	return mapApprovalList(approvals), nil
}

func parseTargets(departmentID, positionID *string) (*uuid.UUID, *uuid.UUID, error) {
	var targetDepartmentID, targetPositionID *uuid.UUID

	if departmentID != nil && *departmentID != "" {
		v, err := uuid.Parse(*departmentID)
		if err != nil {
			return nil, nil, changerequesterrors.ErrInvalidTargetDepartmentID
		}
		targetDepartmentID = &v
	}
	if positionID != nil && *positionID != "" {
		v, err := uuid.Parse(*positionID)
		if err != nil {
			return nil, nil, changerequesterrors.ErrInvalidTargetPositionID
		}
		targetPositionID = &v
	}
	return targetDepartmentID, targetPositionID, nil
}

func targetID(cr *StructureChangeRequest) string {
	if cr.TargetPositionID != nil {
		return cr.TargetPositionID.String()
	}
	if cr.TargetDepartmentID != nil {
		return cr.TargetDepartmentID.String()
	}
	return ""
}
