package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"music-stream-core/internal/core/cache"
	"music-stream-core/internal/core/database"
	"music-stream-core/internal/core/metrics"
	"music-stream-core/internal/domain"
	"music-stream-core/internal/repo"
	"music-stream-core/pkg/utils"
)

// ProfileService enforces the rules around a user's profile, credentials
// and premium tier. Every mutation runs in one transaction.
type ProfileService struct {
	run   *database.Runner
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewProfileService accepts a nil cache.
func NewProfileService(run *database.Runner, c *cache.Cache, ttl time.Duration, l *zap.Logger) *ProfileService {
	if l == nil {
		l = zap.NewNop()
	}
	return &ProfileService{run: run, cache: c, ttl: ttl, log: l}
}

func profileKey(userID string) string { return "profile:" + userID }

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.ProfileView, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, profileKey(userID), s.ttl, func(ctx context.Context) (*domain.ProfileView, error) {
		return s.loadProfile(ctx, userID)
	})
}

func (s *ProfileService) loadProfile(ctx context.Context, userID string) (*domain.ProfileView, error) {
	db := s.run.DB(ctx)
	p, err := repo.NewProfileRepo(db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		return nil, missingOwner(ctx, db, userID, domain.ErrProfileMissing)
	}
	prem, err := repo.NewPremiumRepo(db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load premium: %w", err)
	}
	return &domain.ProfileView{Profile: *p, Premium: prem}, nil
}

// ChangeProfile applies a partial update. Absent fields keep their stored value.
func (s *ProfileService) ChangeProfile(ctx context.Context, userID string, patch domain.ProfilePatch) error {
	cols, err := profileColumns(patch)
	if err != nil {
		return err
	}
	email, emailSet := patch.Email.Get()
	email = strings.TrimSpace(email)

	err = s.run.Transact(ctx, func(tx *gorm.DB) error {
		users := repo.NewUserRepo(tx)
		u, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserMissing
		}
		profiles := repo.NewProfileRepo(tx)
		p, err := profiles.Get(ctx, userID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProfileMissing
		}
		if emailSet && email != u.Email {
			taken, err := users.EmailTaken(ctx, email, userID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrEmailTaken
			}
			if err := users.UpdateEmail(ctx, userID, email); err != nil {
				return err
			}
		}
		return profiles.Update(ctx, userID, cols)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.Info("profile changed", zap.String("user_id", userID), zap.Strings("fields", patchFields(patch)))
	return nil
}

// profileColumns validates the patch before anything touches the store.
func profileColumns(p domain.ProfilePatch) (map[string]any, error) {
	cols := map[string]any{}
	if v, ok := p.Username.Get(); ok {
		switch {
		case v == "":
			cols["username"] = nil
		case utf8.RuneCountInString(v) > 255:
			return nil, domain.ErrMalformedUsername
		default:
			cols["username"] = v
		}
	}
	if v, ok := p.Country.Get(); ok {
		if v == "" {
			cols["country"] = nil
		} else {
			c, err := domain.ParseCountry(v)
			if err != nil {
				return nil, err
			}
			cols["country"] = c
		}
	}
	if v, ok := p.Birthday.Get(); ok {
		if v == "" {
			cols["birthday"] = nil
		} else {
			d, err := ParseBirthday(v)
			if err != nil {
				return nil, err
			}
			cols["birthday"] = d
		}
	}
	if v, ok := p.Email.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" || !strings.Contains(v, "@") || len(v) > 255 {
			return nil, domain.ErrMalformedEmail
		}
	}
	return cols, nil
}

func patchFields(p domain.ProfilePatch) []string {
	var out []string
	if p.Username.Set {
		out = append(out, "username")
	}
	if p.Country.Set {
		out = append(out, "country")
	}
	if p.Birthday.Set {
		out = append(out, "birthday")
	}
	if p.Email.Set {
		out = append(out, "email")
	}
	return out
}

// ParseBirthday accepts 2006-01-02 or a full RFC3339 timestamp and keeps the date part.
func ParseBirthday(s string) (datatypes.Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return datatypes.Date{}, domain.ErrMalformedDate
		}
	}
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)), nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *ProfileService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return domain.ErrMalformedPassword
	}
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		users := repo.NewUserRepo(tx)
		u, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserMissing
		}
		if !utils.CheckPassword(oldPassword, u.PasswordHash) {
			return domain.ErrWrongPassword
		}
		hash, err := utils.HashPassword(newPassword)
		if err != nil {
			return domain.ErrMalformedPassword
		}
		return users.UpdatePasswordHash(ctx, userID, hash)
	})
	if err != nil {
		if domain.IsConflict(err) {
			s.log.Info("password change rejected", zap.String("user_id", userID))
		}
		return err
	}
	s.log.Info("password changed", zap.String("user_id", userID))
	return nil
}

// ChangePremium replaces the user's tier. Asking for the current tier is a
// conflict so that stale clients find out.
func (s *ProfileService) ChangePremium(ctx context.Context, userID string, tier domain.PremiumType) error {
	if !tier.Valid() {
		return domain.ErrMalformedEnum
	}
	var from domain.PremiumType
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		premiums := repo.NewPremiumRepo(tx)
		cur, err := premiums.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if cur == nil {
			return missingOwner(ctx, tx, userID, domain.ErrPremiumMissing)
		}
		if cur.PremiumType == tier {
			return domain.ErrDuplicatePremiumTier
		}
		from = cur.PremiumType
		return premiums.SetTier(ctx, userID, tier)
	})
	if err != nil {
		return err
	}
	metrics.PremiumChanges.WithLabelValues(string(tier)).Inc()
	s.invalidate(ctx, userID)
	s.log.Info("premium changed",
		zap.String("user_id", userID),
		zap.String("from", string(from)),
		zap.String("to", string(tier)),
	)
	return nil
}

func (s *ProfileService) GetUserPremium(ctx context.Context, userID string) (*domain.Premium, error) {
	db := s.run.DB(ctx)
	p, err := repo.NewPremiumRepo(db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load premium: %w", err)
	}
	if p == nil {
		return nil, missingOwner(ctx, db, userID, domain.ErrPremiumMissing)
	}
	return p, nil
}

// GetAvailablePremiums lists the catalog minus the tier the user holds now.
func (s *ProfileService) GetAvailablePremiums(ctx context.Context, userID string) ([]domain.PremiumType, error) {
	db := s.run.DB(ctx)
	u, err := repo.NewUserRepo(db).FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserMissing
	}
	cur, err := repo.NewPremiumRepo(db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load premium: %w", err)
	}
	out := make([]domain.PremiumType, 0, len(domain.AllPremiumTypes))
	for _, t := range domain.AllPremiumTypes {
		if cur != nil && cur.PremiumType == t {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *ProfileService) invalidate(ctx context.Context, userID string) {
	invalidateProfile(ctx, s.cache, s.log, userID)
}

// invalidateProfile drops the cached view after a committed write. Every
// service that mutates profile, premium or user rows calls it.
func invalidateProfile(ctx context.Context, c *cache.Cache, l *zap.Logger, userID string) {
	if err := c.Invalidate(ctx, profileKey(userID)); err != nil {
		l.Warn("cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// missingOwner tells "no such user" apart from "user without the record".
func missingOwner(ctx context.Context, db *gorm.DB, userID string, recordErr error) error {
	u, err := repo.NewUserRepo(db).FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserMissing
	}
	return recordErr
}
