package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quizhub/quizhub-api/internal/api"
	"github.com/quizhub/quizhub-api/internal/cache"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/db"
	"github.com/quizhub/quizhub-api/internal/logger"
	"github.com/quizhub/quizhub-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	// The attempt audit trail degrades gracefully when Redis is down.
	var recorder service.AttemptRecorder
	attempts, err := cache.New(conf.Redis)
	if err != nil {
		zap.L().Warn("attempt audit cache unavailable, continuing without it", zap.Error(err))
	} else {
		recorder = attempts
		defer attempts.Close()
	}

	s := api.NewServer(conf, postgresDB, recorder)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
