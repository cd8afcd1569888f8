package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 用户端模块：public 不鉴权，authed 已挂 AuthJWT
type APIModule interface {
	MountAPI(public, authed *gin.RouterGroup)
}

// AdminModule 后台模块：分组已要求 admin 角色
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// Registry 模块注册表；一个模块可同时实现两个接口
type Registry struct {
	api   []APIModule
	admin []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register 根据类型断言分发到 API/Admin 列表
func (r *Registry) Register(mod any) {
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

// MountAPI 按优先级挂载所有 API 模块
func (r *Registry) MountAPI(public, authed *gin.RouterGroup) {
	for _, m := range sorted(r.api) {
		m.MountAPI(public, authed)
	}
}

// MountAdmin 按优先级挂载所有 Admin 模块
func (r *Registry) MountAdmin(admin *gin.RouterGroup) {
	for _, m := range sorted(r.admin) {
		m.MountAdmin(admin)
	}
}

func sorted[T any](in []T) []T {
	mods := append([]T(nil), in...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	return mods
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
