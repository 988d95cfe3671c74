package position_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"go-orgstructure/internal/audit"
	"go-orgstructure/internal/department"
	"go-orgstructure/internal/events"
	"go-orgstructure/internal/position"
	positionerrors "go-orgstructure/internal/position/errors"
	"go-orgstructure/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePositionRepository struct {
	positions map[uuid.UUID]*position.Position

	createFn                  func(ctx context.Context, post *position.Position) error
	updateFn                  func(ctx context.Context, post *position.Position) error
	findAllFn                 func(ctx context.Context) ([]position.Position, error)
	findActiveSubordinatesFn  func(ctx context.Context, id string) ([]position.Position, error)
	countActiveSubordinatesFn func(ctx context.Context, id string) (int64, error)
	countActiveByDepartmentFn func(ctx context.Context, departmentID string) (int64, error)
	isActiveInDepartmentFn    func(ctx context.Context, positionID, departmentID string) (bool, error)
}

func newFakePositionRepository() *fakePositionRepository {
	return &fakePositionRepository{positions: make(map[uuid.UUID]*position.Position)}
}

func (f *fakePositionRepository) add(post *position.Position) {
	f.positions[post.ID] = post
}

func (f *fakePositionRepository) WithTx(tx *sql.Tx) position.Repository {
	return f
}

func (f *fakePositionRepository) Create(ctx context.Context, post *position.Position) error {
	if f.createFn != nil {
		return f.createFn(ctx, post)
	}
	f.add(post)
	return nil
}

func (f *fakePositionRepository) FindAll(ctx context.Context) ([]position.Position, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakePositionRepository) FindByID(ctx context.Context, id string) (*position.Position, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	post, ok := f.positions[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *post
	return &clone, nil
}

func (f *fakePositionRepository) Update(ctx context.Context, post *position.Position) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, post)
	}
	f.add(post)
	return nil
}

func (f *fakePositionRepository) FindActiveSubordinates(ctx context.Context, id string) ([]position.Position, error) {
	if f.findActiveSubordinatesFn != nil {
		return f.findActiveSubordinatesFn(ctx, id)
	}
	return nil, nil
}

func (f *fakePositionRepository) CountActiveSubordinates(ctx context.Context, id string) (int64, error) {
	if f.countActiveSubordinatesFn != nil {
		return f.countActiveSubordinatesFn(ctx, id)
	}
	return 0, nil
}

func (f *fakePositionRepository) CountActiveByDepartment(ctx context.Context, departmentID string) (int64, error) {
	if f.countActiveByDepartmentFn != nil {
		return f.countActiveByDepartmentFn(ctx, departmentID)
	}
	return 0, nil
}

func (f *fakePositionRepository) IsActiveInDepartment(ctx context.Context, positionID, departmentID string) (bool, error) {
	if f.isActiveInDepartmentFn != nil {
		return f.isActiveInDepartmentFn(ctx, positionID, departmentID)
	}
	return true, nil
}

type fakeDepartmentRepository struct {
	departments map[uuid.UUID]*department.Department

	existsByHeadPositionFn func(ctx context.Context, positionID string) (bool, error)
}

func newFakeDepartmentRepository() *fakeDepartmentRepository {
	return &fakeDepartmentRepository{departments: make(map[uuid.UUID]*department.Department)}
}

func (f *fakeDepartmentRepository) add(dept *department.Department) {
	f.departments[dept.ID] = dept
}

func (f *fakeDepartmentRepository) WithTx(tx *sql.Tx) department.Repository {
	return f
}

func (f *fakeDepartmentRepository) Create(ctx context.Context, dept *department.Department) error {
	f.add(dept)
	return nil
}

func (f *fakeDepartmentRepository) FindAll(ctx context.Context) ([]department.Department, error) {
	return nil, nil
}

func (f *fakeDepartmentRepository) FindByID(ctx context.Context, id string) (*department.Department, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	dept, ok := f.departments[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *dept
	return &clone, nil
}

func (f *fakeDepartmentRepository) Update(ctx context.Context, dept *department.Department) error {
	f.add(dept)
	return nil
}

func (f *fakeDepartmentRepository) ExistsByHeadPosition(ctx context.Context, positionID string) (bool, error) {
	if f.existsByHeadPositionFn != nil {
		return f.existsByHeadPositionFn(ctx, positionID)
	}
	return false, nil
}

type fakeAssignmentCounter struct {
	countActiveByPositionFn func(ctx context.Context, positionID string) (int64, error)
}

func (f *fakeAssignmentCounter) CountActiveByPosition(ctx context.Context, positionID string) (int64, error) {
	if f.countActiveByPositionFn != nil {
		return f.countActiveByPositionFn(ctx, positionID)
	}
	return 0, nil
}

type fakeAuditRepository struct {
	entries []audit.StructureChangeLog
}

func (f *fakeAuditRepository) Create(ctx context.Context, entry *audit.StructureChangeLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]audit.StructureChangeLog, error) {
	return f.entries, nil
}

type fakeNotifier struct {
	structureChanges []string
}

func (f *fakeNotifier) NotifyStructureChanged(ctx context.Context, changeType, targetName string, affectedEmployeeIDs []string) error {
	f.structureChanges = append(f.structureChanges, changeType)
	return nil
}

func (f *fakeNotifier) NotifyChangeRequestSubmitted(ctx context.Context, e events.ChangeRequestSubmittedEvent) error {
	return nil
}

func (f *fakeNotifier) NotifyChangeRequestProcessed(ctx context.Context, e events.ChangeRequestProcessedEvent) error {
	return nil
}

type positionServiceDeps struct {
	db          *sql.DB
	sqlMock     sqlmock.Sqlmock
	service     position.Service
	repo        *fakePositionRepository
	departments *fakeDepartmentRepository
	assignments *fakeAssignmentCounter
	auditRepo   *fakeAuditRepository
	notifier    *fakeNotifier
}

func setupPositionServiceTest(t *testing.T) *positionServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := newFakePositionRepository()
	departments := newFakeDepartmentRepository()
	assignments := &fakeAssignmentCounter{}
	auditRepo := &fakeAuditRepository{}
	notifier := &fakeNotifier{}
	svc := position.NewService(db, repo, departments, assignments, audit.NewRecorder(auditRepo), notifier, nil)

	return &positionServiceDeps{
		db:          db,
		sqlMock:     sqlMock,
		service:     svc,
		repo:        repo,
		departments: departments,
		assignments: assignments,
		auditRepo:   auditRepo,
		notifier:    notifier,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeDepartment(deps *positionServiceDeps) uuid.UUID {
	deptID := uuid.New()
	deps.departments.add(&department.Department{
		ID:       deptID,
		Code:     "ENG",
		Name:     "Engineering",
		IsActive: true,
	})
	return deptID
}

func TestPositionService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success with parent", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deptID := activeDepartment(deps)

		parent := &position.Position{
			ID:           uuid.New(),
			Code:         "CTO",
			Title:        "Chief Technology Officer",
			DepartmentID: deptID,
			IsActive:     true,
		}
		deps.repo.add(parent)

		parentID := parent.ID.String()
		resp, err := deps.service.Create(ctx, actorID, position.CreatePositionRequest{
			Code:                "EM1",
			Title:               "Engineering Manager",
			DepartmentID:        deptID.String(),
			ReportsToPositionID: &parentID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "EM1", resp.Code)
		if assert.NotNil(t, resp.ReportsToPositionID) {
			assert.Equal(t, parentID, *resp.ReportsToPositionID)
		}
		assert.Equal(t, []string{"POSITION_CREATED"}, deps.notifier.structureChanges)
	})

	t.Run("negative inactive department", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deptID := uuid.New()
		deps.departments.add(&department.Department{ID: deptID, Code: "OLD", IsActive: false})

		_, err := deps.service.Create(ctx, actorID, position.CreatePositionRequest{
			Code:         "EM1",
			Title:        "Engineering Manager",
			DepartmentID: deptID.String(),
		})

		assert.ErrorIs(t, err, positionerrors.ErrDepartmentInactive)
	})

	t.Run("negative inactive parent", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deptID := activeDepartment(deps)

		parent := &position.Position{
			ID:           uuid.New(),
			Code:         "CTO",
			DepartmentID: deptID,
			IsActive:     false,
		}
		deps.repo.add(parent)

		parentID := parent.ID.String()
		_, err := deps.service.Create(ctx, actorID, position.CreatePositionRequest{
			Code:                "EM1",
			Title:               "Engineering Manager",
			DepartmentID:        deptID.String(),
			ReportsToPositionID: &parentID,
		})

		assert.ErrorIs(t, err, positionerrors.ErrParentPositionInactive)
	})
}

func TestPositionService_Update(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("negative reparent creates cycle", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deptID := activeDepartment(deps)

		// A reports to nobody, B reports to A. Pointing A at B closes a loop.
		a := &position.Position{ID: uuid.New(), Code: "A", Title: "Head", DepartmentID: deptID, IsActive: true}
		deps.repo.add(a)
		b := &position.Position{ID: uuid.New(), Code: "B", Title: "Deputy", DepartmentID: deptID, ReportsToPositionID: &a.ID, IsActive: true}
		deps.repo.add(b)

		bID := b.ID.String()
		_, err := deps.service.Update(ctx, actorID, a.ID.String(), position.UpdatePositionRequest{
			Code:                "A",
			Title:               "Head",
			DepartmentID:        deptID.String(),
			ReportsToPositionID: &bID,
		})

		assert.ErrorIs(t, err, positionerrors.ErrReportingCycle)
		assert.Empty(t, deps.auditRepo.entries)
	})

	t.Run("negative self reference", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deptID := activeDepartment(deps)

		a := &position.Position{ID: uuid.New(), Code: "A", Title: "Head", DepartmentID: deptID, IsActive: true}
		deps.repo.add(a)

		aID := a.ID.String()
		_, err := deps.service.Update(ctx, actorID, aID, position.UpdatePositionRequest{
			Code:                "A",
			Title:               "Head",
			DepartmentID:        deptID.String(),
			ReportsToPositionID: &aID,
		})

		assert.ErrorIs(t, err, positionerrors.ErrSelfReference)
	})

	t.Run("success clear parent", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deptID := activeDepartment(deps)

		a := &position.Position{ID: uuid.New(), Code: "A", Title: "Head", DepartmentID: deptID, IsActive: true}
		deps.repo.add(a)
		b := &position.Position{ID: uuid.New(), Code: "B", Title: "Deputy", DepartmentID: deptID, ReportsToPositionID: &a.ID, IsActive: true}
		deps.repo.add(b)

		resp, err := deps.service.Update(ctx, actorID, b.ID.String(), position.UpdatePositionRequest{
			Code:         "B",
			Title:        "Deputy",
			DepartmentID: deptID.String(),
		})

		assert.NoError(t, err)
		assert.Nil(t, resp.ReportsToPositionID)
	})
}

func TestPositionService_Deactivate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	setupActive := func(deps *positionServiceDeps) *position.Position {
		deptID := activeDepartment(deps)
		post := &position.Position{ID: uuid.New(), Code: "EM1", Title: "Engineering Manager", DepartmentID: deptID, IsActive: true}
		deps.repo.add(post)
		return post
	}

	t.Run("blocked by active assignments", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		post := setupActive(deps)

		deps.assignments.countActiveByPositionFn = func(ctx context.Context, positionID string) (int64, error) {
			return 2, nil
		}

		_, err := deps.service.Deactivate(ctx, actorID, post.ID.String())

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, apperror.CodePreconditionFailed, appErr.Code)
			assert.Equal(t, http.StatusPreconditionFailed, appErr.HTTPStatus)
			assert.Contains(t, appErr.Message, "2 active assignment(s)")
		}
	})

	t.Run("blocked by active subordinates", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		post := setupActive(deps)

		deps.repo.countActiveSubordinatesFn = func(ctx context.Context, id string) (int64, error) {
			return 4, nil
		}

		_, err := deps.service.Deactivate(ctx, actorID, post.ID.String())

		var appErr *apperror.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, apperror.CodePreconditionFailed, appErr.Code)
			assert.Contains(t, appErr.Message, "4 active subordinate position(s)")
		}
	})

	t.Run("blocked while department head", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		post := setupActive(deps)

		deps.departments.existsByHeadPositionFn = func(ctx context.Context, positionID string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Deactivate(ctx, actorID, post.ID.String())

		assert.ErrorIs(t, err, positionerrors.ErrPositionIsDepartmentHead)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		post := setupActive(deps)

		resp, err := deps.service.Deactivate(ctx, actorID, post.ID.String())

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
		if assert.Len(t, deps.auditRepo.entries, 1) {
			assert.Equal(t, "POSITION_DEACTIVATED", deps.auditRepo.entries[0].Action)
		}
	})

	t.Run("negative already inactive", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deptID := activeDepartment(deps)
		post := &position.Position{ID: uuid.New(), Code: "EM1", DepartmentID: deptID, IsActive: false}
		deps.repo.add(post)

		_, err := deps.service.Deactivate(ctx, actorID, post.ID.String())

		assert.ErrorIs(t, err, positionerrors.ErrPositionAlreadyInactive)
	})
}

func TestPositionService_Activate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("negative parent inactive", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deptID := activeDepartment(deps)

		parent := &position.Position{ID: uuid.New(), Code: "CTO", DepartmentID: deptID, IsActive: false}
		deps.repo.add(parent)
		post := &position.Position{ID: uuid.New(), Code: "EM1", DepartmentID: deptID, ReportsToPositionID: &parent.ID, IsActive: false}
		deps.repo.add(post)

		_, err := deps.service.Activate(ctx, actorID, post.ID.String())

		assert.ErrorIs(t, err, positionerrors.ErrParentPositionInactive)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupPositionServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deptID := activeDepartment(deps)
		post := &position.Position{ID: uuid.New(), Code: "EM1", Title: "Engineering Manager", DepartmentID: deptID, IsActive: false}
		deps.repo.add(post)

		resp, err := deps.service.Activate(ctx, actorID, post.ID.String())

		assert.NoError(t, err)
		assert.True(t, resp.IsActive)
	})
}
