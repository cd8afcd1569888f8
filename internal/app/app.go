package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"music-stream-core/internal/core/auth"
	"music-stream-core/internal/core/cache"
	"music-stream-core/internal/core/config"
	"music-stream-core/internal/core/database"
	"music-stream-core/internal/core/logger"
	"music-stream-core/internal/domain"
	"music-stream-core/internal/service"
	"music-stream-core/internal/transport/http/handler"
	"music-stream-core/internal/transport/http/router"
)

// App 进程级依赖：两个入口（api / admin）共用
type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Registry *router.Registry

	closers []func()
}

// Build 连接 DB / Redis，迁移表结构，组装 service 与 handler；失败直接 Fatal
func Build(cfg *config.Config, log *zap.Logger) *App {
	a := &App{Cfg: cfg, Log: log}

	a.DB = mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if sqlDB, err := a.DB.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(a.DB, domain.Models()...); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Enabled {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name+":")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := c.Ping(ctx); err != nil {
			// 缓存不可用不影响主流程
			log.Warn("redis unavailable, profile cache disabled", zap.Error(err))
			_ = c.Close()
			c = nil
		} else {
			a.closers = append(a.closers, func() { _ = c.Close() })
		}
		cancel()
	}

	run := database.NewRunner(a.DB, cfg.DB.MaxTxRetries, log)
	users := service.NewUserService(run, c, log)
	profiles := service.NewProfileService(run, c, time.Duration(cfg.Cache.ProfileTTLSec)*time.Second, log)
	playlists := service.NewPlaylistService(run, log)
	songs := service.NewSongService(run, log)

	a.JWT = auth.NewJWTer(cfg.JWT)
	a.Registry = router.NewRegistry(
		handler.NewAuthHandler(users, a.JWT, log),
		handler.NewProfileHandler(profiles, log),
		handler.NewPlaylistHandler(playlists, log),
		handler.NewSongHandler(songs, log),
		handler.NewAdminHandler(users, playlists, log),
	)
	return a
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Serve 异步启动，收到 SIGINT/SIGTERM 后优雅关闭
func Serve(name string, srv *http.Server, log *zap.Logger) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(name+" start FAILED", zap.Error(err))
		}
	}()
	log.Info(name + " started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn(name+" shutdown", zap.Error(err))
	}
	log.Info(name + " stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		PrepareStmt:        cfg.DB.PrepareStmt,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.InfoLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
