package position

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-orgstructure/internal/audit"
	"go-orgstructure/internal/department"
	"go-orgstructure/internal/notification"
	positionerrors "go-orgstructure/internal/position/errors"
	"go-orgstructure/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const PositionAllKey = "positions:all"

// AssignmentCounter is the slice of the assignment module needed for the
// deactivation guard. Implemented by assignment.Repository.
type AssignmentCounter interface {
	CountActiveByPosition(ctx context.Context, positionID string) (int64, error)
}

//go:generate mockgen -source=position_service.go -destination=mock/position_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context) ([]PositionResponse, error)
	GetByID(ctx context.Context, id string) (PositionResponse, error)
	Subordinates(ctx context.Context, id string) ([]PositionResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdatePositionRequest) (PositionResponse, error)
	Deactivate(ctx context.Context, actorID, id string) (PositionResponse, error)
	Activate(ctx context.Context, actorID, id string) (PositionResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	departments department.Repository
	assignments AssignmentCounter
	recorder    *audit.Recorder
	notifier    notification.Notifier
	rdb         *redis.Client
	sf          *singleflight.Group
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	departments department.Repository,
	assignments AssignmentCounter,
	recorder *audit.Recorder,
	notifier notification.Notifier,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		departments: departments,
		assignments: assignments,
		recorder:    recorder,
		notifier:    notifier,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreatePositionRequest) (PositionResponse, error) {
	s.logger.Debug("create position requested",
		zap.String("actor_id", actorID),
		zap.String("code", req.Code),
		zap.String("department_id", req.DepartmentID),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidActorID
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidDepartmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create position begin tx failed", zap.Error(err))
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.requireActiveDepartment(ctx, deptID.String()); err != nil {
		return PositionResponse{}, err
	}

	post := &Position{
		ID:           uuid.New(),
		Code:         req.Code,
		Title:        req.Title,
		DepartmentID: deptID,
		IsActive:     true,
	}

	if req.ReportsToPositionID != nil && *req.ReportsToPositionID != "" {
		parentID, err := uuid.Parse(*req.ReportsToPositionID)
		if err != nil {
			return PositionResponse{}, positionerrors.ErrInvalidReportsTo
		}
		if err := s.requireActiveParent(ctx, parentID.String()); err != nil {
			return PositionResponse{}, err
		}
		// A brand-new position cannot sit on any existing chain, but the
		// walk also catches pre-existing corruption upstream.
		cycle, err := WouldCreateCycle(ctx, qtx, post.ID, parentID)
		if err != nil {
			s.logger.Error("create position cycle check failed", zap.Error(err))
			return PositionResponse{}, err
		}
		if cycle {
			return PositionResponse{}, positionerrors.ErrReportingCycle
		}
		post.ReportsToPositionID = &parentID
	}

	if err := qtx.Create(ctx, post); err != nil {
		s.logger.Warn("create position persist failed", zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create position commit failed", zap.Error(err))
		return PositionResponse{}, err
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      "POSITION_CREATED",
		EntityType:  "position",
		EntityID:    post.ID.String(),
		PerformedBy: actorID,
		Summary:     "Position " + post.Code + " created",
		After:       post,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "POSITION_CREATED", post.Title, nil))

	s.logger.Info("create position success",
		zap.String("position_id", post.ID.String()),
		zap.String("code", post.Code),
	)
	return mapToResponse(*post), nil
}

func (s *service) GetAll(ctx context.Context) ([]PositionResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, PositionAllKey).Result()
		if err == nil {
			var resp []PositionResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	// Singleflight mencegah query berulang ke DB saat cache kosong
	v, err, _ := s.sf.Do(PositionAllKey, func() (interface{}, error) {
		positions, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(positions)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, PositionAllKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]PositionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PositionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidPositionID
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*post), nil
}

func (s *service) Subordinates(ctx context.Context, id string) ([]PositionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, positionerrors.ErrInvalidPositionID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	subs, err := s.repo.FindActiveSubordinates(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(subs), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdatePositionRequest) (PositionResponse, error) {
	s.logger.Debug("update position requested",
		zap.String("position_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidPositionID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidActorID
	}
	deptID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidDepartmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update position begin tx failed", zap.Error(err))
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	post, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}
	before := *post

	if deptID != post.DepartmentID {
		if err := s.requireActiveDepartment(ctx, deptID.String()); err != nil {
			return PositionResponse{}, err
		}
	}

	if req.ReportsToPositionID == nil || *req.ReportsToPositionID == "" {
		post.ReportsToPositionID = nil
	} else {
		parentID, err := uuid.Parse(*req.ReportsToPositionID)
		if err != nil {
			return PositionResponse{}, positionerrors.ErrInvalidReportsTo
		}
		if parentID == post.ID {
			return PositionResponse{}, positionerrors.ErrSelfReference
		}

		changed := post.ReportsToPositionID == nil || *post.ReportsToPositionID != parentID
		if changed {
			if err := s.requireActiveParent(ctx, parentID.String()); err != nil {
				return PositionResponse{}, err
			}
			cycle, err := WouldCreateCycle(ctx, qtx, post.ID, parentID)
			if err != nil {
				s.logger.Error("update position cycle check failed", zap.Error(err))
				return PositionResponse{}, err
			}
			if cycle {
				s.logger.Warn("update position rejected: reporting cycle",
					zap.String("position_id", id),
					zap.String("proposed_parent_id", parentID.String()),
				)
				return PositionResponse{}, positionerrors.ErrReportingCycle
			}
		}
		post.ReportsToPositionID = &parentID
	}

	post.Code = req.Code
	post.Title = req.Title
	post.DepartmentID = deptID

	if err := qtx.Update(ctx, post); err != nil {
		s.logger.Warn("update position persist failed", zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update position commit failed", zap.Error(err))
		return PositionResponse{}, err
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      "POSITION_UPDATED",
		EntityType:  "position",
		EntityID:    post.ID.String(),
		PerformedBy: actorID,
		Summary:     "Position " + post.Code + " updated",
		Before:      before,
		After:       post,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "POSITION_UPDATED", post.Title, nil))

	s.logger.Info("update position success", zap.String("position_id", id))
	return mapToResponse(*post), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id string) (PositionResponse, error) {
	s.logger.Debug("deactivate position requested",
		zap.String("position_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidPositionID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deactivate position begin tx failed", zap.Error(err))
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	post, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}
	if !post.IsActive {
		return PositionResponse{}, positionerrors.ErrPositionAlreadyInactive
	}

	// Each guard names its blocking count so the caller can resolve it.
	assignments, err := s.assignments.CountActiveByPosition(ctx, id)
	if err != nil {
		s.logger.Error("deactivate position assignment count failed", zap.Error(err))
		return PositionResponse{}, err
	}
	if assignments > 0 {
		return PositionResponse{}, apperror.Newf(
			apperror.CodePreconditionFailed,
			http.StatusPreconditionFailed,
			"cannot deactivate position: %d active assignment(s)", assignments,
		)
	}

	subordinates, err := qtx.CountActiveSubordinates(ctx, id)
	if err != nil {
		s.logger.Error("deactivate position subordinate count failed", zap.Error(err))
		return PositionResponse{}, err
	}
	if subordinates > 0 {
		return PositionResponse{}, apperror.Newf(
			apperror.CodePreconditionFailed,
			http.StatusPreconditionFailed,
			"cannot deactivate position: %d active subordinate position(s)", subordinates,
		)
	}

	isHead, err := s.departments.ExistsByHeadPosition(ctx, id)
	if err != nil {
		s.logger.Error("deactivate position head check failed", zap.Error(err))
		return PositionResponse{}, err
	}
	if isHead {
		return PositionResponse{}, positionerrors.ErrPositionIsDepartmentHead
	}

	before := *post
	post.IsActive = false

	if err := qtx.Update(ctx, post); err != nil {
		s.logger.Error("deactivate position persist failed", zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("deactivate position commit failed", zap.Error(err))
		return PositionResponse{}, err
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      "POSITION_DEACTIVATED",
		EntityType:  "position",
		EntityID:    post.ID.String(),
		PerformedBy: actorID,
		Summary:     "Position " + post.Code + " deactivated",
		Before:      before,
		After:       post,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "POSITION_DEACTIVATED", post.Title, nil))

	s.logger.Info("deactivate position success", zap.String("position_id", id))
	return mapToResponse(*post), nil
}

func (s *service) Activate(ctx context.Context, actorID, id string) (PositionResponse, error) {
	s.logger.Debug("activate position requested",
		zap.String("position_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidPositionID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return PositionResponse{}, positionerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("activate position begin tx failed", zap.Error(err))
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	post, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}
	if post.IsActive {
		return PositionResponse{}, positionerrors.ErrPositionAlreadyActive
	}

	if err := s.requireActiveDepartment(ctx, post.DepartmentID.String()); err != nil {
		return PositionResponse{}, err
	}
	if post.ReportsToPositionID != nil {
		if err := s.requireActiveParent(ctx, post.ReportsToPositionID.String()); err != nil {
			return PositionResponse{}, err
		}
	}

	before := *post
	post.IsActive = true

	if err := qtx.Update(ctx, post); err != nil {
		s.logger.Error("activate position persist failed", zap.Error(err))
		return PositionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("activate position commit failed", zap.Error(err))
		return PositionResponse{}, err
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      "POSITION_ACTIVATED",
		EntityType:  "position",
		EntityID:    post.ID.String(),
		PerformedBy: actorID,
		Summary:     "Position " + post.Code + " activated",
		Before:      before,
		After:       post,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "POSITION_ACTIVATED", post.Title, nil))

	s.logger.Info("activate position success", zap.String("position_id", id))
	return mapToResponse(*post), nil
}

func (s *service) requireActiveDepartment(ctx context.Context, departmentID string) error {
	dept, err := s.departments.FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return positionerrors.ErrDepartmentNotFound
		}
		return err
	}
	if !dept.IsActive {
		return positionerrors.ErrDepartmentInactive
	}
	return nil
}

func (s *service) requireActiveParent(ctx context.Context, parentID string) error {
	parent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return positionerrors.ErrParentPositionNotFound
		}
		return err
	}
	if !parent.IsActive {
		return positionerrors.ErrParentPositionInactive
	}
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PositionAllKey).Err(); err != nil {
		s.logger.Error("failed to invalidate cache",
			zap.String("key", PositionAllKey),
			zap.Error(err),
		)
	}
}
