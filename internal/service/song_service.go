package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"music-stream-core/internal/core/database"
	"music-stream-core/internal/domain"
	"music-stream-core/internal/repo"
)

type SongService struct {
	run *database.Runner
	log *zap.Logger
}

func NewSongService(run *database.Runner, l *zap.Logger) *SongService {
	if l == nil {
		l = zap.NewNop()
	}
	return &SongService{run: run, log: l}
}

func (s *SongService) UploadSong(ctx context.Context, userID string, in domain.NewSong) (*domain.Song, error) {
	name := strings.TrimSpace(in.Name)
	source := strings.TrimSpace(in.Source)
	if name == "" || utf8.RuneCountInString(name) > domain.MaxSongName ||
		source == "" || utf8.RuneCountInString(source) > domain.MaxSongSource ||
		in.OriginPlaylistID < 0 {
		return nil, domain.ErrMalformedSong
	}
	song := &domain.Song{
		UserID:           userID,
		OriginPlaylistID: in.OriginPlaylistID,
		Name:             name,
		Source:           source,
	}
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		u, err := repo.NewUserRepo(tx).FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserMissing
		}
		if in.OriginPlaylistID != 0 {
			ok, err := repo.NewPlaylistRepo(tx).Exists(ctx, in.OriginPlaylistID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrPlaylistMissing
			}
		}
		return repo.NewSongRepo(tx).Create(ctx, song)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("song uploaded", zap.Int("song_id", song.ID), zap.String("user_id", userID))
	return song, nil
}

func (s *SongService) GetSong(ctx context.Context, id int) (*domain.Song, error) {
	song, err := repo.NewSongRepo(s.run.DB(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load song: %w", err)
	}
	if song == nil {
		return nil, domain.ErrSongMissing
	}
	return song, nil
}

func (s *SongService) ListUserSongs(ctx context.Context, userID string) ([]domain.Song, error) {
	return repo.NewSongRepo(s.run.DB(ctx)).ListByUser(ctx, userID)
}
