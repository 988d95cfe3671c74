package assignment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	assignmenterrors "go-orgstructure/internal/assignment/errors"
	"go-orgstructure/internal/audit"
	"go-orgstructure/internal/directory"
	"go-orgstructure/internal/notification"
	"go-orgstructure/internal/position"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const supersededNote = "Superseded by new assignment"

//go:generate mockgen -source=assignment_service.go -destination=mock/assignment_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, actorID string, req AssignRequest) (AssignmentResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (AssignmentResponse, error)
	End(ctx context.Context, actorID, id string, req EndAssignmentRequest) (AssignmentResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	positions position.Repository
	recorder  *audit.Recorder
	notifier  notification.Notifier
	dirSync   directory.Sync
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	positions position.Repository,
	recorder *audit.Recorder,
	notifier notification.Notifier,
	dirSync directory.Sync,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		positions: positions,
		recorder:  recorder,
		notifier:  notifier,
		dirSync:   dirSync,
		logger:    l,
	}
}

func (s *service) Assign(ctx context.Context, actorID string, req AssignRequest) (AssignmentResponse, error) {
	s.logger.Debug("assign requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("position_id", req.PositionID),
		zap.String("start_date", req.StartDate),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidActorID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidEmployeeID
	}
	positionID, err := uuid.Parse(req.PositionID)
	if err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidPositionID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return AssignmentResponse{}, err
	}

	var changeRequestID *uuid.UUID
	if req.ChangeRequestID != nil && *req.ChangeRequestID != "" {
		crID, err := uuid.Parse(*req.ChangeRequestID)
		if err != nil {
			return AssignmentResponse{}, assignmenterrors.ErrInvalidChangeRequestID
		}
		changeRequestID = &crID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Serialize concurrent assigns per employee for the whole
	// read-modify-write sequence.
	if err := qtx.LockEmployee(ctx, employeeID.String()); err != nil {
		s.logger.Error("assign employee lock failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	post, err := s.positions.FindByID(ctx, positionID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrPositionNotFound
		}
		return AssignmentResponse{}, err
	}
	if !post.IsActive {
		return AssignmentResponse{}, assignmenterrors.ErrPositionInactive
	}

	var superseded *PositionAssignment
	current, err := qtx.FindActiveByEmployee(ctx, employeeID.String())
	switch {
	case err == nil:
		if current.PositionID == positionID {
			s.logger.Warn("assign rejected: duplicate position",
				zap.String("employee_id", req.EmployeeID),
				zap.String("position_id", req.PositionID),
			)
			return AssignmentResponse{}, assignmenterrors.ErrDuplicateAssignment
		}
		// Tutup assignment lama, baris historis tetap disimpan
		closed := *current
		end := startDate
		closed.EndDate = &end
		closed.Notes = supersededNote
		if err := qtx.Update(ctx, &closed); err != nil {
			s.logger.Error("assign supersede persist failed", zap.Error(err))
			return AssignmentResponse{}, err
		}
		superseded = &closed
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no active assignment, nothing to supersede
	default:
		s.logger.Error("assign active lookup failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	a := &PositionAssignment{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		PositionID:      positionID,
		DepartmentID:    post.DepartmentID,
		StartDate:       startDate,
		ChangeRequestID: changeRequestID,
		Reason:          req.Reason,
		Notes:           req.Notes,
	}

	if err := qtx.Create(ctx, a); err != nil {
		s.logger.Error("assign persist failed", zap.Error(err))
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("assign commit failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	summary := "Employee assigned to position " + post.Code
	if superseded != nil {
		summary += ", previous assignment superseded"
	}
	s.recorder.Record(ctx, audit.Entry{
		Action:      "EMPLOYEE_ASSIGNED",
		EntityType:  "position_assignment",
		EntityID:    a.ID.String(),
		PerformedBy: actorID,
		Summary:     summary,
		Before:      superseded,
		After:       a,
	})
	notification.BestEffort(s.logger, "update primary position",
		s.dirSync.UpdatePrimaryPosition(ctx, employeeID.String(), positionID.String(), post.DepartmentID.String()))
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "EMPLOYEE_ASSIGNED", post.Title, []string{employeeID.String()}))

	s.logger.Info("assign success",
		zap.String("assignment_id", a.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Bool("superseded", superseded != nil),
	)
	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AssignmentResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, assignmenterrors.ErrInvalidEmployeeID
		}
	}

	assignments, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(assignments), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AssignmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidAssignmentID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) End(ctx context.Context, actorID, id string, req EndAssignmentRequest) (AssignmentResponse, error) {
	s.logger.Debug("end assignment requested",
		zap.String("assignment_id", id),
		zap.String("actor_id", actorID),
		zap.String("end_date", req.EndDate),
	)

	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidAssignmentID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return AssignmentResponse{}, assignmenterrors.ErrInvalidActorID
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return AssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("end assignment begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, assignmenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}
	if a.EndDate != nil {
		return AssignmentResponse{}, assignmenterrors.ErrAssignmentAlreadyEnded
	}
	if endDate.Before(a.StartDate) {
		return AssignmentResponse{}, assignmenterrors.ErrEndBeforeStart
	}

	before := *a
	a.EndDate = &endDate
	if req.Reason != "" {
		a.Reason = req.Reason
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("end assignment persist failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("end assignment commit failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		Action:      "ASSIGNMENT_ENDED",
		EntityType:  "position_assignment",
		EntityID:    a.ID.String(),
		PerformedBy: actorID,
		Summary:     "Assignment ended",
		Before:      before,
		After:       a,
	})
	notification.BestEffort(s.logger, "clear primary position",
		s.dirSync.ClearPrimaryPosition(ctx, a.EmployeeID.String()))
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "ASSIGNMENT_ENDED", a.PositionID.String(), []string{a.EmployeeID.String()}))

	s.logger.Info("end assignment success", zap.String("assignment_id", id))
	return mapToResponse(*a), nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, assignmenterrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_assignments_one_open" {
			return assignmenterrors.ErrConcurrentAssignment
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_assignments_one_open") {
		return assignmenterrors.ErrConcurrentAssignment
	}

	return err
}
