package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/workpulse-hq/timetrack-backend-go/internal/config"
	appHTTP "github.com/workpulse-hq/timetrack-backend-go/internal/handler/http"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/cron"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/jwt"
	"github.com/workpulse-hq/timetrack-backend-go/internal/repository/postgresql"
	approvalService "github.com/workpulse-hq/timetrack-backend-go/internal/service/approval"
	autoclockService "github.com/workpulse-hq/timetrack-backend-go/internal/service/autoclock"
	contractorService "github.com/workpulse-hq/timetrack-backend-go/internal/service/contractor"
	exceptionService "github.com/workpulse-hq/timetrack-backend-go/internal/service/exception"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/hours"
	timeEntryService "github.com/workpulse-hq/timetrack-backend-go/internal/service/timeentry"
	timesheetService "github.com/workpulse-hq/timetrack-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	contractorRepo := postgresql.NewContractorRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	exceptionRepo := postgresql.NewExceptionRepository(db)
	exceptionRuleRepo := postgresql.NewExceptionRuleRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	calculator := hours.NewCalculator()

	exceptionSvc := exceptionService.NewExceptionService(exceptionRepo, exceptionRuleRepo)
	approvalSvc := approvalService.NewApprovalService(timeEntryRepo, projectRepo)
	timeEntrySvc := timeEntryService.NewTimeEntryService(timeEntryRepo, contractorRepo, calculator)
	timesheetSvc := timesheetService.NewTimesheetService(timeEntryRepo, projectRepo, contractorRepo)
	contractorSvc := contractorService.NewContractorService(contractorRepo)

	engine := autoclockService.NewEngine(contractorRepo, timeEntryRepo, exceptionSvc, calculator)
	engine.SetWorkerLimit(cfg.AutoClock.WorkerLimit)

	scheduler := cron.NewScheduler()
	cron.NewAutoClockJobs(engine, cfg.AutoClock).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	timeEntryHandler := appHTTP.NewTimeEntryHandler(timeEntrySvc)
	approvalHandler := appHTTP.NewApprovalHandler(approvalSvc)
	exceptionHandler := appHTTP.NewExceptionHandler(exceptionSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	contractorHandler := appHTTP.NewContractorHandler(contractorSvc)
	autoClockHandler := appHTTP.NewAutoClockHandler(engine, scheduler)

	router := appHTTP.NewRouter(
		JWTService,
		timeEntryHandler,
		approvalHandler,
		exceptionHandler,
		timesheetHandler,
		contractorHandler,
		autoClockHandler,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
