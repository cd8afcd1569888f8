package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"music-stream-core/internal/core/auth"
	"music-stream-core/internal/core/server"
	mdw "music-stream-core/internal/transport/http/middleware"
)

// base 两个引擎共用的中间件 + /health /metrics
func base(l *zap.Logger) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func NewAPIEngine(l *zap.Logger, jwter *auth.JWTer, reg *Registry) *gin.Engine {
	r := base(l)

	api := r.Group("/api/v1")

	// 公开分组：登录注册按 IP 再限一次
	public := api.Group("")
	public.Use(mdw.RateLimitPerIP(5, 10))

	// 鉴权分组（/me 等必须挂这里，才能拿到 userId）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))

	reg.MountAPI(public, authed)
	return r
}
