package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"music-stream-core/internal/app"
	"music-stream-core/internal/core/config"
	"music-stream-core/internal/core/logger"
	"music-stream-core/internal/core/server"
	"music-stream-core/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	a := app.Build(cfg, log)
	defer a.Close()

	// 路由（用户端）
	r := router.NewAPIEngine(log, a.JWT, a.Registry)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	rt, wt, it := server.Timeouts(cfg.App.HTTP)
	srv := server.BuildServer(addr, r, log, rt, wt, it)

	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)
	app.Serve("user api", srv, log)
}
