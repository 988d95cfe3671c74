package app

import (
	"database/sql"

	"go-orgstructure/internal/assignment"
	"go-orgstructure/internal/audit"
	"go-orgstructure/internal/changerequest"
	"go-orgstructure/internal/department"
	"go-orgstructure/internal/directory"
	"go-orgstructure/internal/messaging/kafka"
	"go-orgstructure/internal/middleware"
	"go-orgstructure/internal/notification"
	"go-orgstructure/internal/position"
	"go-orgstructure/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	assignmentRepo := assignment.NewRepository(gormDB)
	changeRequestRepo := changerequest.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	positionRepo := position.NewRepository(gormDB)

	// --- Side-effect sinks ---
	recorder := audit.NewRecorder(auditRepo)
	notifier := notification.NewOutboxNotifier(outboxRepo)
	dirSync := directory.NewOutboxSync(outboxRepo)

	// --- Services ---
	departmentService := department.NewService(db, departmentRepo, positionRepo, recorder, notifier, rdb)
	positionService := position.NewService(db, positionRepo, departmentRepo, assignmentRepo, recorder, notifier, rdb)
	assignmentService := assignment.NewService(db, assignmentRepo, positionRepo, recorder, notifier, dirSync)
	changeRequestService := changerequest.NewService(db, changeRequestRepo, counterRepo, recorder, notifier)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditRepo)
	assignmentHandler := assignment.NewHandler(assignmentService)
	changeRequestHandler := changerequest.NewHandlerWithRedis(changeRequestService, rdb)
	departmentHandler := department.NewHandler(departmentService)
	positionHandler := position.NewHandler(positionService)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(rate.Limit(50), 100))
	{
		department.RegisterRoutes(api, departmentHandler)
		position.RegisterRoutes(api, positionHandler)
		assignment.RegisterRoutes(api, assignmentHandler)
		changerequest.RegisterRoutes(api, changeRequestHandler, middleware.Idempotency(rdb))
		audit.RegisterRoutes(api, auditHandler)
	}

	return nil
}
