package app

import (
	"os"

	"school-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module's
// routes on the router. Redis is optional: without it the generation
// endpoint simply loses idempotency-key replay, the database unique
// index still prevents duplicate pay runs.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		zap.L().Warn("redis unavailable, idempotency replay disabled", zap.Error(err))
		redisClient = nil
	} else {
		zap.L().Info("redis connection established")
	}

	return registerModules(router, sqlDB, gormDB, redisClient)
}
