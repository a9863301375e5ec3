package app

import (
	"database/sql"

	"school-payroll/internal/attendance"
	"school-payroll/internal/messaging/kafka"
	"school-payroll/internal/middleware"
	"school-payroll/internal/payrun"
	"school-payroll/internal/salarystructure"
	"school-payroll/internal/shared/counter"
	"school-payroll/internal/staffdir"

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
) error {
	// --- Repositories ---
	structureRepo := salarystructure.NewRepository(gormDB)
	payRunRepo := payrun.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	attendanceReader := attendance.NewReader(gormDB)
	staffDirectory := staffdir.NewDirectory(gormDB)

	// --- Services ---
	structureService := salarystructure.NewService(db, structureRepo)
	payRunService := payrun.NewServiceWithOutbox(
		db,
		payRunRepo,
		structureRepo,
		attendanceReader,
		staffDirectory,
		counterRepo,
		outboxRepo,
	)

	// --- Handlers ---
	structureHandler := salarystructure.NewHandler(structureService)
	payRunHandler := payrun.NewHandler(payRunService)

	// --- Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(50, 100))

	api := router.Group("/api/v1")
	api.Use(middleware.SchoolContext())
	api.Use(middleware.RateLimitBySchool(20, 40))
	api.Use(middleware.ContextLogger(zap.L()))
	{
		salarystructure.RegisterRoutes(api, structureHandler)
		if rdb != nil {
			payrun.RegisterRoutes(api, payRunHandler, rdb)
		} else {
			payrun.RegisterRoutes(api, payRunHandler)
		}
	}

	return nil
}
