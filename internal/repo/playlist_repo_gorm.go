package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"music-stream-core/internal/domain"
)

type PlaylistRepo struct{ db *gorm.DB }

func NewPlaylistRepo(db *gorm.DB) *PlaylistRepo { return &PlaylistRepo{db: db} }

func (r *PlaylistRepo) Create(ctx context.Context, p *domain.Playlist) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PlaylistRepo) FindByID(ctx context.Context, id int) (*domain.Playlist, error) {
	var p domain.Playlist
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepo) Exists(ctx context.Context, id int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Playlist{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Update never touches playlist_type or user_id.
func (r *PlaylistRepo) Update(ctx context.Context, id int, cols map[string]any) error {
	delete(cols, "playlist_type")
	delete(cols, "user_id")
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Playlist{}).Where("id = ?", id).Updates(cols).Error
}

func (r *PlaylistRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Playlist, error) {
	var out []domain.Playlist
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (r *PlaylistRepo) IDsByCreator(ctx context.Context, userID string) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&domain.Playlist{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	return ids, err
}

func (r *PlaylistRepo) ListLikedBy(ctx context.Context, userID string) ([]domain.Playlist, error) {
	var out []domain.Playlist
	err := r.db.WithContext(ctx).
		Joins("JOIN liked_playlist ON liked_playlist.playlist_id = playlist.id").
		Where("liked_playlist.user_id = ?", userID).
		Order("playlist.id").
		Find(&out).Error
	return out, err
}

// Delete removes the playlist together with every join row that references it.
// Call inside a transaction.
func (r *PlaylistRepo) Delete(ctx context.Context, id int) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("playlist_id = ?", id).Delete(&domain.PlaylistSong{}).Error; err != nil {
		return err
	}
	if err := db.Where("playlist_id = ?", id).Delete(&domain.LikedPlaylist{}).Error; err != nil {
		return err
	}
	if err := db.Where("playlist_id = ?", id).Delete(&domain.Genre{}).Error; err != nil {
		return err
	}
	// songs sourced from this playlist fall back to "no origin"
	if err := db.Model(&domain.Song{}).Where("origin_playlist_id = ?", id).Update("origin_playlist_id", 0).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&domain.Playlist{}).Error
}
