package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/workforcehq/attendance-bridge/internal/config"
	"github.com/workforcehq/attendance-bridge/internal/fixtures"
	"github.com/workforcehq/attendance-bridge/internal/pkg/biometric"
	"github.com/workforcehq/attendance-bridge/internal/pkg/cron"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
	"github.com/workforcehq/attendance-bridge/internal/repository/postgresql"
	deviceopsService "github.com/workforcehq/attendance-bridge/internal/service/deviceops"
	notificationService "github.com/workforcehq/attendance-bridge/internal/service/notification"
	policyService "github.com/workforcehq/attendance-bridge/internal/service/policy"
	reconcileService "github.com/workforcehq/attendance-bridge/internal/service/reconcile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	configurationRepo := postgresql.NewConfigurationRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fixtures.EnsureGlobalDefault(ctx, configurationRepo); err != nil {
		slog.Error("failed to seed global configuration", "error", err)
		os.Exit(1)
	}

	notifier := notificationService.NewService(notificationService.Config{})
	defer notifier.Stop()

	policies := policyService.NewResolver(configurationRepo)
	reconciler := reconcileService.NewService(
		db,
		attendanceRepo,
		punchRepo,
		employeeRepo,
		scheduleRepo,
		policies,
		notifier,
	)

	dialer := deviceopsService.NewDialer(
		biometric.WithDialTimeout(cfg.Device.DialTimeout),
		biometric.WithCommandTimeout(cfg.Device.CommandTimeout),
	)
	poller := deviceopsService.NewService(deviceRepo, dialer, reconciler, deviceopsService.Config{
		PageSize:     cfg.Poll.PageSize,
		PollInterval: cfg.Poll.Interval,
	})
	dayClose := deviceopsService.NewDayCloseJobs(
		attendanceRepo,
		employeeRepo,
		scheduleRepo,
		policies,
		notifier,
		cfg.Poll.DayCloseHour,
	)

	scheduler := cron.NewScheduler()
	poller.RegisterJobs(scheduler)
	dayClose.RegisterJobs(scheduler)
	scheduler.Start()

	slog.Info("attendance bridge started",
		slog.String("env", cfg.App.Env),
		slog.Duration("poll_interval", cfg.Poll.Interval))

	<-ctx.Done()
	slog.Info("shutting down")
	scheduler.Stop()
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
