package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"music-stream-core/internal/core/auth"
	mdw "music-stream-core/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, jwter *auth.JWTer, reg *Registry) *gin.Engine {
	r := base(l)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))

	reg.MountAdmin(admin)
	return r
}
