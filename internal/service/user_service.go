package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"music-stream-core/internal/core/cache"
	"music-stream-core/internal/core/database"
	"music-stream-core/internal/core/metrics"
	"music-stream-core/internal/domain"
	"music-stream-core/internal/repo"
	"music-stream-core/pkg/utils"
)

// UserService provisions accounts: a user never exists without its
// profile and premium records.
type UserService struct {
	run   *database.Runner
	cache *cache.Cache
	log   *zap.Logger
}

// NewUserService takes the profile cache so deletes can evict it; c may be nil.
func NewUserService(run *database.Runner, c *cache.Cache, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{run: run, cache: c, log: l}
}

type Account struct {
	User     domain.User     `json:"user"`
	UserType domain.UserType `json:"userType"`
}

// Register creates the user, a listener profile and a "none" premium.
func (s *UserService) Register(ctx context.Context, email, password, username string) (*Account, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") || len(email) > 255 {
		return nil, domain.ErrMalformedEmail
	}
	if password == "" {
		return nil, domain.ErrMalformedPassword
	}
	if len(username) > 255 {
		return nil, domain.ErrMalformedUsername
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, domain.ErrMalformedPassword
	}

	u := domain.User{ID: utils.NewID(), Email: email, PasswordHash: hash}
	if username != "" {
		u.Username = &username
	}
	err = s.run.Transact(ctx, func(tx *gorm.DB) error {
		users := repo.NewUserRepo(tx)
		taken, err := users.EmailTaken(ctx, email, "")
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
		if err := users.Create(ctx, &u); err != nil {
			return err
		}
		if err := repo.NewProfileRepo(tx).Create(ctx, &domain.Profile{
			UserID:   u.ID,
			Username: u.Username,
			UserType: domain.UserListener,
		}); err != nil {
			return err
		}
		return repo.NewPremiumRepo(tx).Create(ctx, &domain.Premium{
			UserID:      u.ID,
			PremiumType: domain.PremiumNone,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.Registrations.Inc()
	s.log.Info("account provisioned", zap.String("user_id", u.ID))
	return &Account{User: u, UserType: domain.UserListener}, nil
}

// Authenticate checks credentials for the boundary's login route.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	db := s.run.DB(ctx)
	u, err := repo.NewUserRepo(db).FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserMissing
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrWrongPassword
	}
	return s.account(ctx, db, u)
}

func (s *UserService) Get(ctx context.Context, id string) (*Account, error) {
	db := s.run.DB(ctx)
	u, err := repo.NewUserRepo(db).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserMissing
	}
	return s.account(ctx, db, u)
}

func (s *UserService) account(ctx context.Context, db *gorm.DB, u *domain.User) (*Account, error) {
	p, err := repo.NewProfileRepo(db).Get(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProfileMissing
	}
	return &Account{User: *u, UserType: p.UserType}, nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return repo.NewUserRepo(s.run.DB(ctx)).List(ctx, offset, limit)
}

// Delete removes the user and everything keyed by it: likes, created
// playlists (with their joins), uploaded songs, profile and premium.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		users := repo.NewUserRepo(tx)
		u, err := users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserMissing
		}
		relations := repo.NewRelationRepo(tx)
		if err := relations.UnlikeAllBy(ctx, id); err != nil {
			return err
		}
		playlists := repo.NewPlaylistRepo(tx)
		pids, err := playlists.IDsByCreator(ctx, id)
		if err != nil {
			return err
		}
		for _, pid := range pids {
			if err := playlists.Delete(ctx, pid); err != nil {
				return err
			}
		}
		songs := repo.NewSongRepo(tx)
		sids, err := songs.IDsByUser(ctx, id)
		if err != nil {
			return err
		}
		if err := relations.DetachSongs(ctx, sids); err != nil {
			return err
		}
		if err := songs.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := repo.NewProfileRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		if err := repo.NewPremiumRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		return users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	invalidateProfile(ctx, s.cache, s.log, id)
	s.log.Info("account deleted", zap.String("user_id", id))
	return nil
}
