package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"music-stream-core/internal/core/config"
	"music-stream-core/internal/core/logger"
)

// NewRouter gin 引擎：panic 恢复（zap 记栈）+ CORS；访问日志由 middleware.AccessLog 负责
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusOK, gin.H{"code": http.StatusInternalServerError, "msg": "internal error", "data": gin.H{}})
	}))
	cc := cors.DefaultConfig()
	cc.AllowAllOrigins = true
	cc.AddAllowHeaders("Authorization", "X-Request-ID")
	cc.AddExposeHeaders("X-Request-ID")
	r.Use(cors.New(cc))
	return r
}

// BuildServer http.Server；ErrorLog 接到 zap
func BuildServer(addr string, handler http.Handler, l *zap.Logger, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
		ErrorLog:          logger.ToStdLogger(l, zapcore.WarnLevel),
	}
}

// Timeouts 读取配置中的秒数，缺省 5s/10s/60s
func Timeouts(h config.HTTP) (rt, wt, it time.Duration) {
	rt, wt, it = 5*time.Second, 10*time.Second, 60*time.Second
	if h.ReadTimeoutSec > 0 {
		rt = time.Duration(h.ReadTimeoutSec) * time.Second
	}
	if h.WriteTimeoutSec > 0 {
		wt = time.Duration(h.WriteTimeoutSec) * time.Second
	}
	if h.IdleTimeoutSec > 0 {
		it = time.Duration(h.IdleTimeoutSec) * time.Second
	}
	return rt, wt, it
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// HumanURL 把 0.0.0.0 换成 127.0.0.1，方便启动日志点击
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}
