package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"music-stream-core/internal/domain"
)

type SongRepo struct{ db *gorm.DB }

func NewSongRepo(db *gorm.DB) *SongRepo { return &SongRepo{db: db} }

func (r *SongRepo) Create(ctx context.Context, s *domain.Song) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SongRepo) FindByID(ctx context.Context, id int) (*domain.Song, error) {
	var s domain.Song
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SongRepo) Exists(ctx context.Context, id int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Song{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *SongRepo) ListByUser(ctx context.Context, userID string) ([]domain.Song, error) {
	var out []domain.Song
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (r *SongRepo) IDsByUser(ctx context.Context, userID string) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&domain.Song{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

func (r *SongRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Song{}).Error
}
