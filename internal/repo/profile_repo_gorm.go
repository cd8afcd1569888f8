package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"music-stream-core/internal/domain"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update writes only the given columns. A nil value stores NULL.
func (r *ProfileRepo) Update(ctx context.Context, userID string, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Profile{}).Where("user_id = ?", userID).Updates(cols).Error
}

func (r *ProfileRepo) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Profile{}).Error
}

type PremiumRepo struct{ db *gorm.DB }

func NewPremiumRepo(db *gorm.DB) *PremiumRepo { return &PremiumRepo{db: db} }

func (r *PremiumRepo) Create(ctx context.Context, p *domain.Premium) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PremiumRepo) Get(ctx context.Context, userID string) (*domain.Premium, error) {
	return r.get(r.db.WithContext(ctx), userID)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *PremiumRepo) GetForUpdate(ctx context.Context, userID string) (*domain.Premium, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *PremiumRepo) get(q *gorm.DB, userID string) (*domain.Premium, error) {
	var p domain.Premium
	err := q.First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PremiumRepo) SetTier(ctx context.Context, userID string, tier domain.PremiumType) error {
	return r.db.WithContext(ctx).Model(&domain.Premium{}).
		Where("user_id = ?", userID).
		Update("premium_type", tier).Error
}

func (r *PremiumRepo) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Premium{}).Error
}
