package app

import (
	"database/sql"
	"os"

	"dataguard-hris/internal/audit"
	"dataguard-hris/internal/auth"
	"dataguard-hris/internal/balance"
	"dataguard-hris/internal/leave"
	"dataguard-hris/internal/messaging/kafka"
	"dataguard-hris/internal/onboarding"
	"dataguard-hris/internal/performance"
	"dataguard-hris/internal/profile"
	"dataguard-hris/internal/rbac"
	"dataguard-hris/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	profileRepo := profile.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(gormDB, db)
	onboardingRepo := onboarding.NewRepository(gormDB)
	performanceRepo := performance.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	auditSink := audit.NewOutboxSink(outboxRepo)
	balanceService := balance.NewService(balanceRepo, rdb, os.Getenv("LEAVE_OVERDRAFT_POLICY"), logger)
	profileService := profile.NewService(db, profileRepo, counterRepo, rdb, auditSink, logger)
	leaveService := leave.NewService(db, leaveRepo, profileService, balanceService, auditSink, logger)
	authService := auth.NewService(authRepo, profileService, logger)
	onboardingService := onboarding.NewService(db, onboardingRepo, auditSink, logger)
	performanceService := performance.NewService(performanceRepo, logger)
	auditService := audit.NewService(db, auditRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	profileHandler := profile.NewHandler(profileService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb, logger)
	onboardingHandler := onboarding.NewHandler(onboardingService, logger)
	performanceHandler := performance.NewHandler(performanceService, logger)
	auditHandler := audit.NewHandler(auditService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		profile.RegisterRoutes(api, profileHandler, rbacService, logger)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb, logger)
		onboarding.RegisterRoutes(api, onboardingHandler, rbacService, logger)
		performance.RegisterRoutes(api, performanceHandler, rbacService, logger)
		audit.RegisterRoutes(api, auditHandler, rbacService)
	}

	return nil
}
