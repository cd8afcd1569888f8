package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"music-stream-core/internal/domain"
	"music-stream-core/internal/service"
	"music-stream-core/internal/transport/http/ez"
)

// AdminHandler 后台：用户列表 / 删除用户 / 下架歌单 / 认证歌单
type AdminHandler struct {
	users     *service.UserService
	playlists *service.PlaylistService
	log       *zap.Logger
}

func NewAdminHandler(users *service.UserService, playlists *service.PlaylistService, l *zap.Logger) *AdminHandler {
	return &AdminHandler{users: users, playlists: playlists, log: l}
}

type usersQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type usersOut struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

type verifyIn struct {
	Verified bool `json:"verified"`
}

var adminOnly = []string{"admin"}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[usersQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *usersQ) (usersOut, error) {
			us, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return usersOut{}, err
			}
			return usersOut{Total: total, Items: us}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, ez.BadRequest("missing id")
			}
			if err := h.users.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/playlists/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.playlists.ForceDeletePlaylist(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[verifyIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/playlists/:id/verify",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *verifyIn) (gin.H, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.playlists.SetVerified(c.Request.Context(), id, in.Verified); err != nil {
				return nil, err
			}
			h.log.Info("playlist verification set", zap.Int("playlist_id", id), zap.Bool("verified", in.Verified), zap.String("admin_id", ez.UserID(c)))
			return gin.H{"id": id, "verified": in.Verified}, nil
		},
	})
}
