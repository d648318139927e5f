package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/grcworks/audittrail/internal/config"
	"github.com/grcworks/audittrail/internal/database"
	"github.com/grcworks/audittrail/internal/logger"
	"github.com/grcworks/audittrail/internal/server"
	"github.com/grcworks/audittrail/internal/services"
	"github.com/grcworks/audittrail/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().Fatalf("load config: %v", err)
	}

	// Log to both stdout and a rotated file next to the database.
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(filepath.Dir(cfg.DatabasePath), "logs", "audittrail.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.Log().Infof("starting %s on version %s", version.Name, version.Full())

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Log().Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Log().Fatalf("migrate database: %v", err)
	}

	reminders := services.NewReminderService(db, cfg.NotifyURLs)
	if err := reminders.Start(cfg.ReminderCron); err != nil {
		logger.Log().Fatalf("start reminder scheduler: %v", err)
	}
	defer reminders.Stop()

	srv, err := server.New(db, cfg)
	if err != nil {
		logger.Log().Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log().Infof("listening on :%s", cfg.HTTPPort)
	if err := srv.Run(ctx); err != nil {
		logger.Log().Fatalf("server: %v", err)
	}
}
