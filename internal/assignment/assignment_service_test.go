package assignment_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-orgstructure/internal/assignment"
	assignmenterrors "go-orgstructure/internal/assignment/errors"
	"go-orgstructure/internal/audit"
	"go-orgstructure/internal/directory"
	"go-orgstructure/internal/events"
	"go-orgstructure/internal/notification"
	"go-orgstructure/internal/position"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAssignmentRepository struct {
	lockedEmployees []string
	created         []*assignment.PositionAssignment
	updated         []*assignment.PositionAssignment

	createFn               func(ctx context.Context, a *assignment.PositionAssignment) error
	findAllFn              func(ctx context.Context, filter assignment.ListFilter) ([]assignment.PositionAssignment, error)
	findByIDFn             func(ctx context.Context, id string) (*assignment.PositionAssignment, error)
	findActiveByEmployeeFn func(ctx context.Context, employeeID string) (*assignment.PositionAssignment, error)
	updateFn               func(ctx context.Context, a *assignment.PositionAssignment) error
}

func (f *fakeAssignmentRepository) WithTx(tx *sql.Tx) assignment.Repository {
	return f
}

func (f *fakeAssignmentRepository) Create(ctx context.Context, a *assignment.PositionAssignment) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAssignmentRepository) FindAll(ctx context.Context, filter assignment.ListFilter) ([]assignment.PositionAssignment, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeAssignmentRepository) FindByID(ctx context.Context, id string) (*assignment.PositionAssignment, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*assignment.PositionAssignment, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepository) Update(ctx context.Context, a *assignment.PositionAssignment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	f.updated = append(f.updated, a)
	return nil
}

func (f *fakeAssignmentRepository) CountActiveByPosition(ctx context.Context, positionID string) (int64, error) {
	return 0, nil
}

func (f *fakeAssignmentRepository) LockEmployee(ctx context.Context, employeeID string) error {
	f.lockedEmployees = append(f.lockedEmployees, employeeID)
	return nil
}

type fakePositionRepository struct {
	positions map[uuid.UUID]*position.Position
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
	f.add(post)
	return nil
}

func (f *fakePositionRepository) FindAll(ctx context.Context) ([]position.Position, error) {
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
	f.add(post)
	return nil
}

func (f *fakePositionRepository) FindActiveSubordinates(ctx context.Context, id string) ([]position.Position, error) {
	return nil, nil
}

func (f *fakePositionRepository) CountActiveSubordinates(ctx context.Context, id string) (int64, error) {
	return 0, nil
}

func (f *fakePositionRepository) CountActiveByDepartment(ctx context.Context, departmentID string) (int64, error) {
	return 0, nil
}

func (f *fakePositionRepository) IsActiveInDepartment(ctx context.Context, positionID, departmentID string) (bool, error) {
	return true, nil
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
	err              error
}

func (f *fakeNotifier) NotifyStructureChanged(ctx context.Context, changeType, targetName string, affectedEmployeeIDs []string) error {
	if f.err != nil {
		return f.err
	}
	f.structureChanges = append(f.structureChanges, changeType)
	return nil
}

func (f *fakeNotifier) NotifyChangeRequestSubmitted(ctx context.Context, e events.ChangeRequestSubmittedEvent) error {
	return f.err
}

func (f *fakeNotifier) NotifyChangeRequestProcessed(ctx context.Context, e events.ChangeRequestProcessedEvent) error {
	return f.err
}

type fakeDirectorySync struct {
	updates []string
	clears  []string
	err     error
}

func (f *fakeDirectorySync) UpdatePrimaryPosition(ctx context.Context, employeeID, positionID, departmentID string) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, employeeID)
	return nil
}

func (f *fakeDirectorySync) ClearPrimaryPosition(ctx context.Context, employeeID string) error {
	if f.err != nil {
		return f.err
	}
	f.clears = append(f.clears, employeeID)
	return nil
}

type assignmentServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   assignment.Service
	repo      *fakeAssignmentRepository
	positions *fakePositionRepository
	auditRepo *fakeAuditRepository
	notifier  *fakeNotifier
	dirSync   *fakeDirectorySync
}

func setupAssignmentServiceTest(t *testing.T) *assignmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAssignmentRepository{}
	positions := newFakePositionRepository()
	auditRepo := &fakeAuditRepository{}
	notifier := &fakeNotifier{}
	dirSync := &fakeDirectorySync{}
	svc := assignment.NewService(db, repo, positions, audit.NewRecorder(auditRepo), notifier, dirSync)

	return &assignmentServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		positions: positions,
		auditRepo: auditRepo,
		notifier:  notifier,
		dirSync:   dirSync,
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

func activePosition(deps *assignmentServiceDeps) *position.Position {
	post := &position.Position{
		ID:           uuid.New(),
		Code:         "EM1",
		Title:        "Engineering Manager",
		DepartmentID: uuid.New(),
		IsActive:     true,
	}
	deps.positions.add(post)
	return post
}

func TestAssignmentService_Assign(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success first assignment", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		post := activePosition(deps)

		resp, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Equal(t, "2026-09-01", resp.StartDate)
		assert.Nil(t, resp.EndDate)
		assert.Equal(t, []string{employeeID}, deps.repo.lockedEmployees)
		assert.Len(t, deps.repo.created, 1)
		assert.Empty(t, deps.repo.updated)
		assert.Equal(t, []string{employeeID}, deps.dirSync.updates)

		if assert.Len(t, deps.auditRepo.entries, 1) {
			assert.Equal(t, "EMPLOYEE_ASSIGNED", deps.auditRepo.entries[0].Action)
			assert.Nil(t, deps.auditRepo.entries[0].BeforeSnapshot)
		}
	})

	t.Run("success with noop side-effect sinks", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		svc := assignment.NewService(
			deps.db,
			deps.repo,
			deps.positions,
			audit.NewRecorder(deps.auditRepo),
			notification.NewNoopNotifier(),
			directory.NewNoopSync(),
		)

		expectTx(t, deps.sqlMock, true)
		post := activePosition(deps)

		resp, err := svc.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.Len(t, deps.repo.created, 1)
	})

	t.Run("supersedes previous assignment", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		oldPost := activePosition(deps)
		newPost := activePosition(deps)

		current := &assignment.PositionAssignment{
			ID:           uuid.New(),
			EmployeeID:   uuid.MustParse(employeeID),
			PositionID:   oldPost.ID,
			DepartmentID: oldPost.DepartmentID,
			StartDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, eid string) (*assignment.PositionAssignment, error) {
			return current, nil
		}

		resp, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: newPost.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, newPost.ID.String(), resp.PositionID)

		// Old row is closed at the new start date and kept as history.
		if assert.Len(t, deps.repo.updated, 1) {
			closed := deps.repo.updated[0]
			if assert.NotNil(t, closed.EndDate) {
				assert.Equal(t, "2026-09-01", closed.EndDate.Format("2006-01-02"))
			}
			assert.Equal(t, "Superseded by new assignment", closed.Notes)
		}
		assert.Len(t, deps.repo.created, 1)

		// One audit row covering the whole supersession.
		if assert.Len(t, deps.auditRepo.entries, 1) {
			assert.Equal(t, "EMPLOYEE_ASSIGNED", deps.auditRepo.entries[0].Action)
			assert.NotEmpty(t, deps.auditRepo.entries[0].BeforeSnapshot)
			assert.NotEmpty(t, deps.auditRepo.entries[0].AfterSnapshot)
			assert.Contains(t, deps.auditRepo.entries[0].Summary, "superseded")
		}
	})

	t.Run("negative same position conflict", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		post := activePosition(deps)

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, eid string) (*assignment.PositionAssignment, error) {
			return &assignment.PositionAssignment{
				ID:         uuid.New(),
				EmployeeID: uuid.MustParse(employeeID),
				PositionID: post.ID,
				StartDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			}, nil
		}

		_, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrDuplicateAssignment)
		assert.Empty(t, deps.repo.created)
		assert.Empty(t, deps.auditRepo.entries)
	})

	t.Run("negative inactive position", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		post := activePosition(deps)
		post.IsActive = false
		deps.positions.add(post)

		_, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrPositionInactive)
	})

	t.Run("negative unique index race maps to conflict", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		post := activePosition(deps)

		deps.repo.createFn = func(ctx context.Context, a *assignment.PositionAssignment) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_assignments_one_open"}
		}

		_, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrConcurrentAssignment)
	})

	t.Run("notification failure does not fail assign", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		post := activePosition(deps)
		deps.notifier.err = assert.AnError
		deps.dirSync.err = assert.AnError

		resp, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "2026-09-01",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("negative bad start date", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		post := activePosition(deps)
		_, err := deps.service.Assign(ctx, actorID, assignment.AssignRequest{
			EmployeeID: employeeID,
			PositionID: post.ID.String(),
			StartDate:  "01-09-2026",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrInvalidDateFormat)
	})
}

func TestAssignmentService_End(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	id := uuid.New().String()

	openAssignment := func() *assignment.PositionAssignment {
		return &assignment.PositionAssignment{
			ID:         uuid.MustParse(id),
			EmployeeID: uuid.New(),
			PositionID: uuid.New(),
			StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		a := openAssignment()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*assignment.PositionAssignment, error) {
			clone := *a
			return &clone, nil
		}

		resp, err := deps.service.End(ctx, actorID, id, assignment.EndAssignmentRequest{
			EndDate: "2026-06-30",
		})

		assert.NoError(t, err)
		if assert.NotNil(t, resp.EndDate) {
			assert.Equal(t, "2026-06-30", *resp.EndDate)
		}
		assert.Equal(t, []string{a.EmployeeID.String()}, deps.dirSync.clears)
		if assert.Len(t, deps.auditRepo.entries, 1) {
			assert.Equal(t, "ASSIGNMENT_ENDED", deps.auditRepo.entries[0].Action)
		}
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		a := openAssignment()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*assignment.PositionAssignment, error) {
			clone := *a
			return &clone, nil
		}

		_, err := deps.service.End(ctx, actorID, id, assignment.EndAssignmentRequest{
			EndDate: "2026-02-01",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrEndBeforeStart)
	})

	t.Run("end date equal to start date is allowed", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		a := openAssignment()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*assignment.PositionAssignment, error) {
			clone := *a
			return &clone, nil
		}

		resp, err := deps.service.End(ctx, actorID, id, assignment.EndAssignmentRequest{
			EndDate: "2026-03-01",
		})

		assert.NoError(t, err)
		assert.NotNil(t, resp.EndDate)
	})

	t.Run("negative already ended", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		a := openAssignment()
		ended := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		a.EndDate = &ended
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*assignment.PositionAssignment, error) {
			clone := *a
			return &clone, nil
		}

		_, err := deps.service.End(ctx, actorID, id, assignment.EndAssignmentRequest{
			EndDate: "2026-06-30",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrAssignmentAlreadyEnded)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.End(ctx, actorID, id, assignment.EndAssignmentRequest{
			EndDate: "2026-06-30",
		})

		assert.ErrorIs(t, err, assignmenterrors.ErrAssignmentNotFound)
	})
}
