package app

import (
	"database/sql"
	"path/filepath"

	"go-absensi/internal/consolidation"
	"go-absensi/internal/eligibility"
	"go-absensi/internal/employee"
	"go-absensi/internal/holiday"
	"go-absensi/internal/leave"
	"go-absensi/internal/messaging/kafka"
	"go-absensi/internal/rbac"
	"go-absensi/internal/rbac/infra"
	"go-absensi/internal/report"
	"go-absensi/internal/schedule"
	"go-absensi/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	consolidationRepo := consolidation.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	scheduleService := schedule.NewService(scheduleRepo)
	eligibilityService := eligibility.NewService(employeeRepo, leaveRepo, scheduleRepo, holidayRepo)
	reportService := report.NewService(db, reportRepo, employeeRepo, userRepo, leaveRepo, eligibilityService, rbacService)
	consolidationService := consolidation.NewService(db, consolidationRepo, reportRepo, reportService, employeeRepo, userRepo, outboxRepo, rbacService)

	// --- Handlers ---
	scheduleHandler := schedule.NewHandler(scheduleService)
	eligibilityHandler := eligibility.NewHandler(eligibilityService)
	reportHandler := report.NewHandler(reportService)
	consolidationHandler := consolidation.NewHandler(consolidationService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		schedule.RegisterRoutes(api, scheduleHandler, rbacService)
		eligibility.RegisterRoutes(api, eligibilityHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		consolidation.RegisterRoutes(api, consolidationHandler, rbacService, rdb)
	}

	return nil
}
