package repo

import (
	"context"

	"gorm.io/gorm"

	"music-stream-core/internal/domain"
)

type GenreRepo struct{ db *gorm.DB }

func NewGenreRepo(db *gorm.DB) *GenreRepo { return &GenreRepo{db: db} }

// Tag is idempotent for the (playlist, genre) pair.
func (r *GenreRepo) Tag(ctx context.Context, playlistID int, g domain.GenreType) error {
	db := r.db.WithContext(ctx)
	var n int64
	if err := db.Model(&domain.Genre{}).
		Where("playlist_id = ? AND genre_type = ?", playlistID, g).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	pid := playlistID
	return db.Create(&domain.Genre{PlaylistID: &pid, GenreType: g}).Error
}

func (r *GenreRepo) Untag(ctx context.Context, playlistID int, g domain.GenreType) error {
	return r.db.WithContext(ctx).
		Where("playlist_id = ? AND genre_type = ?", playlistID, g).
		Delete(&domain.Genre{}).Error
}

func (r *GenreRepo) ListByPlaylist(ctx context.Context, playlistID int) ([]domain.GenreType, error) {
	var out []domain.GenreType
	err := r.db.WithContext(ctx).Model(&domain.Genre{}).
		Where("playlist_id = ?", playlistID).
		Order("genre_type").
		Pluck("genre_type", &out).Error
	return out, err
}
