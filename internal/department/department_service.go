package department

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	departmenterrors "go-orgstructure/internal/department/errors"
	"go-orgstructure/internal/audit"
	"go-orgstructure/internal/notification"
	"go-orgstructure/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DepartmentAllKey = "departments:all"

// PositionDirectory is the slice of the position module this service needs.
// Implemented by position.Repository; declared here to keep the dependency
// one-directional.
type PositionDirectory interface {
	CountActiveByDepartment(ctx context.Context, departmentID string) (int64, error)
	IsActiveInDepartment(ctx context.Context, positionID, departmentID string) (bool, error)
}

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Deactivate(ctx context.Context, actorID, id string) (DepartmentResponse, error)
	Activate(ctx context.Context, actorID, id string) (DepartmentResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	positions PositionDirectory
	recorder  *audit.Recorder
	notifier  notification.Notifier
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	positions PositionDirectory,
	recorder *audit.Recorder,
	notifier notification.Notifier,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		positions: positions,
		recorder:  recorder,
		notifier:  notifier,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateDepartmentRequest) (DepartmentResponse, error) {
	s.logger.Debug("create department requested",
		zap.String("actor_id", actorID),
		zap.String("code", req.Code),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create department begin tx failed", zap.Error(err))
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept := &Department{
		ID:          uuid.New(),
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Budget:      req.Budget,
		IsActive:    true,
	}

	if err := qtx.Create(ctx, dept); err != nil {
		s.logger.Warn("create department persist failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create department commit failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      "DEPARTMENT_CREATED",
		EntityType:  "department",
		EntityID:    dept.ID.String(),
		PerformedBy: actorID,
		Summary:     "Department " + dept.Code + " created",
		After:       dept,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "DEPARTMENT_CREATED", dept.Name, nil))

	s.logger.Info("create department success",
		zap.String("department_id", dept.ID.String()),
		zap.String("code", dept.Code),
	)
	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	// Coba ambil dari Redis dulu
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, DepartmentAllKey).Result()
		if err == nil {
			var resp []DepartmentResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(DepartmentAllKey, func() (interface{}, error) {
		depts, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(depts)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, DepartmentAllKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]DepartmentResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	s.logger.Debug("update department requested",
		zap.String("department_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update department begin tx failed", zap.Error(err))
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	before := *dept

	if req.HeadPositionID != nil && *req.HeadPositionID != "" {
		headID, err := uuid.Parse(*req.HeadPositionID)
		if err != nil {
			return DepartmentResponse{}, departmenterrors.ErrInvalidHeadPositionID
		}
		// Head harus posisi aktif milik department ini
		ok, err := s.positions.IsActiveInDepartment(ctx, headID.String(), id)
		if err != nil {
			s.logger.Error("update department head check failed", zap.Error(err))
			return DepartmentResponse{}, err
		}
		if !ok {
			return DepartmentResponse{}, departmenterrors.ErrHeadPositionNotInDepartment
		}
		dept.HeadPositionID = &headID
	} else {
		dept.HeadPositionID = nil
	}

	dept.Code = req.Code
	dept.Name = req.Name
	dept.Description = req.Description
	dept.Budget = req.Budget

	if err := qtx.Update(ctx, dept); err != nil {
		s.logger.Warn("update department persist failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update department commit failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      "DEPARTMENT_UPDATED",
		EntityType:  "department",
		EntityID:    dept.ID.String(),
		PerformedBy: actorID,
		Summary:     "Department " + dept.Code + " updated",
		Before:      before,
		After:       dept,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, "DEPARTMENT_UPDATED", dept.Name, nil))

	s.logger.Info("update department success", zap.String("department_id", id))
	return mapToResponse(*dept), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id string) (DepartmentResponse, error) {
	return s.setActive(ctx, actorID, id, false)
}

func (s *service) Activate(ctx context.Context, actorID, id string) (DepartmentResponse, error) {
	return s.setActive(ctx, actorID, id, true)
}

func (s *service) setActive(ctx context.Context, actorID, id string, active bool) (DepartmentResponse, error) {
	s.logger.Debug("department lifecycle change requested",
		zap.String("department_id", id),
		zap.String("actor_id", actorID),
		zap.Bool("target_active", active),
	)

	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("department lifecycle begin tx failed", zap.Error(err))
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if dept.IsActive == active {
		if active {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentAlreadyActive
		}
		return DepartmentResponse{}, departmenterrors.ErrDepartmentAlreadyInactive
	}

	if !active {
		// Deaktivasi hanya boleh kalau tidak ada posisi aktif tersisa
		count, err := s.positions.CountActiveByDepartment(ctx, id)
		if err != nil {
			s.logger.Error("department active position count failed", zap.Error(err))
			return DepartmentResponse{}, err
		}
		if count > 0 {
			s.logger.Warn("department deactivation blocked",
				zap.String("department_id", id),
				zap.Int64("active_positions", count),
			)
			return DepartmentResponse{}, apperror.Newf(
				apperror.CodePreconditionFailed,
				http.StatusPreconditionFailed,
				"cannot deactivate department: %d active position(s)", count,
			)
		}
	}

	before := *dept
	dept.IsActive = active

	if err := qtx.Update(ctx, dept); err != nil {
		s.logger.Error("department lifecycle persist failed", zap.Error(err))
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("department lifecycle commit failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	action := "DEPARTMENT_DEACTIVATED"
	if active {
		action = "DEPARTMENT_ACTIVATED"
	}

	s.invalidateCache(ctx)
	s.recorder.Record(ctx, audit.Entry{
		Action:      action,
		EntityType:  "department",
		EntityID:    dept.ID.String(),
		PerformedBy: actorID,
		Summary:     "Department " + dept.Code + " lifecycle changed",
		Before:      before,
		After:       dept,
	})
	notification.BestEffort(s.logger, "notify structure changed",
		s.notifier.NotifyStructureChanged(ctx, action, dept.Name, nil))

	s.logger.Info("department lifecycle change success",
		zap.String("department_id", id),
		zap.Bool("is_active", active),
	)
	return mapToResponse(*dept), nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DepartmentAllKey).Err(); err != nil {
		s.logger.Error("failed to invalidate cache",
			zap.String("key", DepartmentAllKey),
			zap.Error(err),
		)
	}
}
