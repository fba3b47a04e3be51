package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-absensi/internal/eligibility"
	"go-absensi/internal/employee"
	"go-absensi/internal/events"
	"go-absensi/internal/holiday"
	"go-absensi/internal/leave"
	"go-absensi/internal/messaging/kafka/consumer"
	"go-absensi/internal/rbac"
	"go-absensi/internal/rbac/infra"
	"go-absensi/internal/report"
	"go-absensi/internal/schedule"
	"go-absensi/internal/shared/connection"
	"go-absensi/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer subscribes to leave lifecycle events and sweeps recorded
// absences that conflict with freshly approved leave.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	rbacRepo := rbac.NewRepository(gormDB)
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	employeeRepo := employee.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	scheduleRepo := schedule.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)

	eligibilityService := eligibility.NewService(employeeRepo, leaveRepo, scheduleRepo, holidayRepo)
	reportService := report.NewService(sqlDB, reportRepo, employeeRepo, userRepo, leaveRepo, eligibilityService, rbacService)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.LeaveLifecycleTopic,
		GroupID:        "go-absensi-leave-cleanup",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveLifecycle(ctx, reader, reportService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
