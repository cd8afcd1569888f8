package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"music-stream-core/internal/core/auth"
	"music-stream-core/internal/domain"
	"music-stream-core/internal/service"
	"music-stream-core/internal/transport/http/ez"
)

// AuthHandler 注册 / 登录 / 当前用户
type AuthHandler struct {
	users *service.UserService
	jwter *auth.JWTer
	log   *zap.Logger
}

func NewAuthHandler(users *service.UserService, jwter *auth.JWTer, l *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter, log: l}
}

func (h *AuthHandler) Priority() int { return 10 }

type signupIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username" binding:"omitempty,max=255"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenOut struct {
	Token    string          `json:"token"`
	User     domain.User     `json:"user"`
	UserType domain.UserType `json:"userType"`
}

func (h *AuthHandler) issue(acc *service.Account) (tokenOut, error) {
	tok, err := h.jwter.Issue(acc.User.ID, domain.RoleOf(acc.UserType))
	if err != nil {
		return tokenOut{}, ez.Internal("issue token failed", err)
	}
	return tokenOut{Token: tok, User: acc.User, UserType: acc.UserType}, nil
}

// MountAPI /auth/* 公开；/me 需要登录（挂在 authed 分组）
func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub := ez.New(public, h.log)
	me := ez.New(authed, h.log)

	ez.RegisterAction(pub, ez.Action[signupIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (tokenOut, error) {
			acc, err := h.users.Register(c.Request.Context(), in.Email, in.Password, in.Username)
			if err != nil {
				return tokenOut{}, err
			}
			return h.issue(acc)
		},
	})

	ez.RegisterAction(pub, ez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			acc, err := h.users.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				// 不区分“用户不存在”和“密码错误”
				if domain.IsNotFound(err) || domain.IsConflict(err) {
					return tokenOut{}, ez.Unauthorized("invalid credentials")
				}
				return tokenOut{}, err
			}
			return h.issue(acc)
		},
	})

	ez.RegisterAction(me, ez.Action[struct{}, *service.Account]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Account, error) {
			return h.users.Get(c.Request.Context(), ez.UserID(c))
		},
	})
}
