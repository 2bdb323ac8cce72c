package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/api"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/config"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/db"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/events"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/logger"
	"github.com/yizeng/gab/gin/gorm/menu-manager/internal/repository/dao"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}
	defer zap.L().Sync() //nolint:errcheck

	if err = config.Watch(configPath, onConfigChange); err != nil {
		zap.L().Warn("config hot reload disabled", zap.Error(err))
	}

	gormDB, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if conf.Database.AutoMigrate {
		if err = dao.InitTables(gormDB); err != nil {
			return fmt.Errorf("failed to migrate database -> %w", err)
		}
	}

	var publishers []events.Publisher
	if conf.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(conf.Kafka.Brokers, conf.Kafka.Topic)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		zap.L().Info("publishing menu item events to kafka",
			zap.Strings("brokers", conf.Kafka.Brokers),
			zap.String("topic", conf.Kafka.Topic),
		)
	}

	s := api.NewServer(conf, gormDB, publishers...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.Events.Run(ctx)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("failed to shut down the server", zap.Error(err))
		}
	}()

	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func onConfigChange(e fsnotify.Event, conf *config.AppConfig, err error) {
	if err != nil {
		zap.L().Warn("failed to reload config", zap.String("file", e.Name), zap.Error(err))
		return
	}

	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		zap.L().Warn("ignoring invalid log level", zap.String("file", e.Name), zap.Error(err))
		return
	}

	zap.L().Info("config reloaded", zap.String("file", e.Name), zap.String("log_level", conf.API.LogLevel))
}
