package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"music-stream-core/internal/domain"
	"music-stream-core/internal/service"
	"music-stream-core/internal/transport/http/ez"
)

// ProfileHandler 个人资料 / 密码 / 会员档位
type ProfileHandler struct {
	profiles *service.ProfileService
	log      *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, l *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, log: l}
}

func (h *ProfileHandler) Priority() int { return 20 }

// 字段缺省（null / 不传）= 不修改；空串 = 清空
type profileIn struct {
	Username *string `json:"username"`
	Country  *string `json:"country"`
	Birthday *string `json:"birthday"`
	Email    *string `json:"email"`
}

func (in profileIn) patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Username: domain.FromPtr(in.Username),
		Country:  domain.FromPtr(in.Country),
		Birthday: domain.FromPtr(in.Birthday),
		Email:    domain.FromPtr(in.Email),
	}
}

type passwordIn struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// tier 按名字，tierId 按目录序号（0=none）；二选一
type premiumIn struct {
	Tier   string `json:"tier"`
	TierID *int   `json:"tierId"`
}

func (in premiumIn) resolve() (domain.PremiumType, error) {
	if in.TierID != nil {
		return domain.PremiumTypeByOrdinal(*in.TierID)
	}
	if in.Tier == "" {
		return "", ez.BadRequest("tier or tierId required")
	}
	return domain.ParsePremiumType(in.Tier)
}

type premiumsOut struct {
	Items []domain.PremiumType `json:"items"`
}

func (h *ProfileHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)

	ez.RegisterAction(e, ez.Action[struct{}, *domain.ProfileView]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.ProfileView, error) {
			return h.profiles.GetProfile(c.Request.Context(), ez.UserID(c))
		},
	})

	ez.RegisterAction(e, ez.Action[profileIn, *domain.ProfileView]{
		Method: http.MethodPost,
		Path:   "/profile",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (*domain.ProfileView, error) {
			ctx, uid := c.Request.Context(), ez.UserID(c)
			if err := h.profiles.ChangeProfile(ctx, uid, in.patch()); err != nil {
				return nil, err
			}
			return h.profiles.GetProfile(ctx, uid)
		},
	})

	ez.RegisterAction(e, ez.Action[passwordIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/profile/password",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *passwordIn) (gin.H, error) {
			if err := h.profiles.ChangePassword(c.Request.Context(), ez.UserID(c), in.OldPassword, in.NewPassword); err != nil {
				return nil, err
			}
			return gin.H{"changed": true}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Premium]{
		Method: http.MethodGet,
		Path:   "/premium",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Premium, error) {
			return h.profiles.GetUserPremium(c.Request.Context(), ez.UserID(c))
		},
	})

	ez.RegisterAction(e, ez.Action[premiumIn, *domain.Premium]{
		Method: http.MethodPost,
		Path:   "/premium",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *premiumIn) (*domain.Premium, error) {
			tier, err := in.resolve()
			if err != nil {
				return nil, err
			}
			ctx, uid := c.Request.Context(), ez.UserID(c)
			if err := h.profiles.ChangePremium(ctx, uid, tier); err != nil {
				return nil, err
			}
			return h.profiles.GetUserPremium(ctx, uid)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, premiumsOut]{
		Method: http.MethodGet,
		Path:   "/premium/available",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (premiumsOut, error) {
			items, err := h.profiles.GetAvailablePremiums(c.Request.Context(), ez.UserID(c))
			if err != nil {
				return premiumsOut{}, err
			}
			return premiumsOut{Items: items}, nil
		},
	})
}
