package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"music-stream-core/internal/domain"
)

// RelationRepo maintains the playlist_song and liked_playlist joins with
// set semantics: inserting an existing pair or deleting a missing one is a no-op.
type RelationRepo struct{ db *gorm.DB }

func NewRelationRepo(db *gorm.DB) *RelationRepo { return &RelationRepo{db: db} }

func (r *RelationRepo) AddSong(ctx context.Context, playlistID, songID int) error {
	row := domain.PlaylistSong{PlaylistID: playlistID, SongID: songID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *RelationRepo) RemoveSong(ctx context.Context, playlistID, songID int) error {
	return r.db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&domain.PlaylistSong{}).Error
}

func (r *RelationRepo) Like(ctx context.Context, userID string, playlistID int) error {
	row := domain.LikedPlaylist{UserID: userID, PlaylistID: playlistID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *RelationRepo) Unlike(ctx context.Context, userID string, playlistID int) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND playlist_id = ?", userID, playlistID).
		Delete(&domain.LikedPlaylist{}).Error
}

func (r *RelationRepo) IsLiked(ctx context.Context, userID string, playlistID int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.LikedPlaylist{}).
		Where("user_id = ? AND playlist_id = ?", userID, playlistID).
		Count(&n).Error
	return n > 0, err
}

func (r *RelationRepo) Likers(ctx context.Context, playlistID int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.LikedPlaylist{}).
		Where("playlist_id = ?", playlistID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *RelationRepo) Songs(ctx context.Context, playlistID int) ([]domain.Song, error) {
	var out []domain.Song
	err := r.db.WithContext(ctx).
		Joins("JOIN playlist_song ON playlist_song.song_id = song.id").
		Where("playlist_song.playlist_id = ?", playlistID).
		Order("song.id").
		Find(&out).Error
	return out, err
}

// UnlikeAllBy drops every like a user holds.
func (r *RelationRepo) UnlikeAllBy(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.LikedPlaylist{}).Error
}

// DetachSongs removes the songs from every playlist.
func (r *RelationRepo) DetachSongs(ctx context.Context, songIDs []int) error {
	if len(songIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("song_id IN ?", songIDs).Delete(&domain.PlaylistSong{}).Error
}
