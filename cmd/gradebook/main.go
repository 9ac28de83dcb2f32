package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/astanton/gradebook/internal/cli"
	"github.com/astanton/gradebook/internal/repository"
	"github.com/astanton/gradebook/internal/service"
	"github.com/astanton/gradebook/pkg/config"
	"github.com/astanton/gradebook/pkg/database"
	appErrors "github.com/astanton/gradebook/pkg/errors"
	"github.com/astanton/gradebook/pkg/logger"
	"github.com/astanton/gradebook/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer db.Close() //nolint:errcheck

	exportStore, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export directory", "dir", cfg.Export.Dir, "error", err)
	}
	backupStore, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare backup directory", "dir", cfg.Backup.Dir, "error", err)
	}

	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	reportSvc := service.NewReportService(courseRepo, cfg.Trends.WindowDays, logr)

	app := &cli.App{
		Config:      cfg,
		Courses:     service.NewCourseService(courseRepo, validate, logr),
		Categories:  service.NewCategoryService(categoryRepo, courseRepo, validate, logr),
		Assignments: service.NewAssignmentService(assignmentRepo, categoryRepo, courseRepo, validate, logr),
		Reports:     reportSvc,
		Exports:     service.NewExportService(reportSvc, exportStore, logr),
		Backups:     service.NewBackupService(cfg.Database.Path, backupStore, logr),
		CloseDB:     db.Close,
	}

	root := cli.NewRootCommand(app)
	if err := root.Execute(); err != nil {
		appErr := appErrors.FromError(err)
		fmt.Fprintln(os.Stderr, "Error:", appErr.Error())
		os.Exit(appErr.Exit)
	}
}
