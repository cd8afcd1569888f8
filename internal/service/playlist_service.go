package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"music-stream-core/internal/core/database"
	"music-stream-core/internal/core/metrics"
	"music-stream-core/internal/domain"
	"music-stream-core/internal/repo"
)

// PlaylistService owns playlist rows and the playlist_song / liked_playlist
// joins. Adds and removes are set operations.
type PlaylistService struct {
	run *database.Runner
	log *zap.Logger
}

func NewPlaylistService(run *database.Runner, l *zap.Logger) *PlaylistService {
	if l == nil {
		l = zap.NewNop()
	}
	return &PlaylistService{run: run, log: l}
}

// CreatePlaylist inserts the playlist and the creator's like in one transaction.
func (s *PlaylistService) CreatePlaylist(ctx context.Context, creatorID string, in domain.NewPlaylist) (*domain.Playlist, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || utf8.RuneCountInString(title) > domain.MaxPlaylistTitle {
		return nil, domain.ErrMalformedTitle
	}
	pt, err := domain.ParsePlaylistType(in.Type)
	if err != nil {
		return nil, err
	}
	if in.ImgSrc != nil && utf8.RuneCountInString(*in.ImgSrc) > domain.MaxImageRef {
		return nil, domain.ErrMalformedImage
	}

	p := &domain.Playlist{
		Title:        title,
		UserID:       creatorID,
		PlaylistType: pt,
		ImgSrc:       in.ImgSrc,
		Verified:     in.Verified,
	}
	err = s.run.Transact(ctx, func(tx *gorm.DB) error {
		u, err := repo.NewUserRepo(tx).FindByID(ctx, creatorID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserMissing
		}
		if err := repo.NewPlaylistRepo(tx).Create(ctx, p); err != nil {
			return err
		}
		return repo.NewRelationRepo(tx).Like(ctx, creatorID, p.ID)
	})
	if err != nil {
		return nil, err
	}
	metrics.PlaylistOps.WithLabelValues("create").Inc()
	s.log.Info("playlist created",
		zap.Int("playlist_id", p.ID),
		zap.String("user_id", creatorID),
		zap.String("type", string(pt)),
	)
	return p, nil
}

func (s *PlaylistService) GetPlaylist(ctx context.Context, id int) (*domain.Playlist, error) {
	p, err := repo.NewPlaylistRepo(s.run.DB(ctx)).FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load playlist: %w", err)
	}
	if p == nil {
		return nil, domain.ErrPlaylistMissing
	}
	return p, nil
}

func ownedPlaylist(ctx context.Context, tx *gorm.DB, callerID string, id int) (*domain.Playlist, error) {
	p, err := repo.NewPlaylistRepo(tx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlaylistMissing
	}
	if p.UserID != callerID {
		return nil, domain.ErrNotOwner
	}
	return p, nil
}

// UpdatePlaylist edits title, cover and verified flag. The classification
// is fixed at creation; a patch naming a different type is rejected.
func (s *PlaylistService) UpdatePlaylist(ctx context.Context, callerID string, id int, patch domain.PlaylistPatch) (*domain.Playlist, error) {
	cols := map[string]any{}
	var wantType domain.PlaylistType
	if v, ok := patch.Type.Get(); ok {
		t, err := domain.ParsePlaylistType(v)
		if err != nil {
			return nil, err
		}
		wantType = t
	}
	if v, ok := patch.Title.Get(); ok {
		v = strings.TrimSpace(v)
		if v == "" || utf8.RuneCountInString(v) > domain.MaxPlaylistTitle {
			return nil, domain.ErrMalformedTitle
		}
		cols["title"] = v
	}
	if v, ok := patch.ImgSrc.Get(); ok {
		switch {
		case v == "":
			cols["img_src"] = nil
		case utf8.RuneCountInString(v) > domain.MaxImageRef:
			return nil, domain.ErrMalformedImage
		default:
			cols["img_src"] = v
		}
	}
	if v, ok := patch.Verified.Get(); ok {
		cols["verified"] = v
	}

	var out *domain.Playlist
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		p, err := ownedPlaylist(ctx, tx, callerID, id)
		if err != nil {
			return err
		}
		if wantType != "" && wantType != p.PlaylistType {
			return domain.ErrImmutablePlaylistType
		}
		playlists := repo.NewPlaylistRepo(tx)
		if err := playlists.Update(ctx, id, cols); err != nil {
			return err
		}
		out, err = playlists.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("playlist updated", zap.Int("playlist_id", id), zap.String("user_id", callerID))
	return out, nil
}

// SetVerified is the admin toggle; it skips the ownership check.
func (s *PlaylistService) SetVerified(ctx context.Context, id int, verified bool) error {
	return s.run.Transact(ctx, func(tx *gorm.DB) error {
		playlists := repo.NewPlaylistRepo(tx)
		ok, err := playlists.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPlaylistMissing
		}
		return playlists.Update(ctx, id, map[string]any{"verified": verified})
	})
}

// DeletePlaylist removes the playlist and every join row referencing it.
func (s *PlaylistService) DeletePlaylist(ctx context.Context, callerID string, id int) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		if _, err := ownedPlaylist(ctx, tx, callerID, id); err != nil {
			return err
		}
		return repo.NewPlaylistRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.deleted(id)
	return nil
}

// ForceDeletePlaylist is DeletePlaylist without the ownership check (admin).
func (s *PlaylistService) ForceDeletePlaylist(ctx context.Context, id int) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		playlists := repo.NewPlaylistRepo(tx)
		ok, err := playlists.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPlaylistMissing
		}
		return playlists.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.deleted(id)
	return nil
}

func (s *PlaylistService) deleted(id int) {
	metrics.PlaylistOps.WithLabelValues("delete").Inc()
	s.log.Info("playlist deleted", zap.Int("playlist_id", id))
}

func (s *PlaylistService) AddSongToPlaylist(ctx context.Context, playlistID, songID int) error {
	return s.addSong(ctx, playlistID, songID, nil)
}

// AddSongToOwnedPlaylist checks the creator inside the membership transaction.
func (s *PlaylistService) AddSongToOwnedPlaylist(ctx context.Context, callerID string, playlistID, songID int) error {
	return s.addSong(ctx, playlistID, songID, ownerCheck(ctx, callerID, playlistID))
}

// RemoveSongFromPlaylist succeeds when the pair is already absent.
func (s *PlaylistService) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int) error {
	return s.removeSong(ctx, playlistID, songID, nil)
}

func (s *PlaylistService) RemoveSongFromOwnedPlaylist(ctx context.Context, callerID string, playlistID, songID int) error {
	return s.removeSong(ctx, playlistID, songID, ownerCheck(ctx, callerID, playlistID))
}

func ownerCheck(ctx context.Context, callerID string, playlistID int) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		_, err := ownedPlaylist(ctx, tx, callerID, playlistID)
		return err
	}
}

func (s *PlaylistService) addSong(ctx context.Context, playlistID, songID int, check func(tx *gorm.DB) error) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		if check != nil {
			if err := check(tx); err != nil {
				return err
			}
		}
		if err := playlistAndSongExist(ctx, tx, playlistID, songID); err != nil {
			return err
		}
		return repo.NewRelationRepo(tx).AddSong(ctx, playlistID, songID)
	})
	if err != nil {
		return err
	}
	metrics.PlaylistOps.WithLabelValues("add_song").Inc()
	return nil
}

func (s *PlaylistService) removeSong(ctx context.Context, playlistID, songID int, check func(tx *gorm.DB) error) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		if check != nil {
			if err := check(tx); err != nil {
				return err
			}
		}
		return repo.NewRelationRepo(tx).RemoveSong(ctx, playlistID, songID)
	})
	if err != nil {
		return err
	}
	metrics.PlaylistOps.WithLabelValues("remove_song").Inc()
	return nil
}

func playlistAndSongExist(ctx context.Context, tx *gorm.DB, playlistID, songID int) error {
	ok, err := repo.NewPlaylistRepo(tx).Exists(ctx, playlistID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPlaylistMissing
	}
	ok, err = repo.NewSongRepo(tx).Exists(ctx, songID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSongMissing
	}
	return nil
}

func (s *PlaylistService) LikePlaylist(ctx context.Context, userID string, playlistID int) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		u, err := repo.NewUserRepo(tx).FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserMissing
		}
		ok, err := repo.NewPlaylistRepo(tx).Exists(ctx, playlistID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrPlaylistMissing
		}
		return repo.NewRelationRepo(tx).Like(ctx, userID, playlistID)
	})
	if err != nil {
		return err
	}
	metrics.PlaylistOps.WithLabelValues("like").Inc()
	return nil
}

func (s *PlaylistService) UnlikePlaylist(ctx context.Context, userID string, playlistID int) error {
	err := s.run.Transact(ctx, func(tx *gorm.DB) error {
		return repo.NewRelationRepo(tx).Unlike(ctx, userID, playlistID)
	})
	if err != nil {
		return err
	}
	metrics.PlaylistOps.WithLabelValues("unlike").Inc()
	return nil
}

func (s *PlaylistService) IsLiked(ctx context.Context, userID string, playlistID int) (bool, error) {
	return repo.NewRelationRepo(s.run.DB(ctx)).IsLiked(ctx, userID, playlistID)
}

func (s *PlaylistService) ListLikers(ctx context.Context, playlistID int) ([]string, error) {
	return repo.NewRelationRepo(s.run.DB(ctx)).Likers(ctx, playlistID)
}

func (s *PlaylistService) ListPlaylistSongs(ctx context.Context, playlistID int) ([]domain.Song, error) {
	if _, err := s.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	return repo.NewRelationRepo(s.run.DB(ctx)).Songs(ctx, playlistID)
}

func (s *PlaylistService) ListLikedPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	return repo.NewPlaylistRepo(s.run.DB(ctx)).ListLikedBy(ctx, userID)
}

func (s *PlaylistService) ListCreatedPlaylists(ctx context.Context, userID string) ([]domain.Playlist, error) {
	return repo.NewPlaylistRepo(s.run.DB(ctx)).ListByCreator(ctx, userID)
}

// TagGenre is idempotent per (playlist, genre).
func (s *PlaylistService) TagGenre(ctx context.Context, callerID string, playlistID int, genre string) error {
	g, err := domain.ParseGenreType(genre)
	if err != nil {
		return err
	}
	return s.run.Transact(ctx, func(tx *gorm.DB) error {
		if _, err := ownedPlaylist(ctx, tx, callerID, playlistID); err != nil {
			return err
		}
		return repo.NewGenreRepo(tx).Tag(ctx, playlistID, g)
	})
}

func (s *PlaylistService) UntagGenre(ctx context.Context, callerID string, playlistID int, genre string) error {
	g, err := domain.ParseGenreType(genre)
	if err != nil {
		return err
	}
	return s.run.Transact(ctx, func(tx *gorm.DB) error {
		if _, err := ownedPlaylist(ctx, tx, callerID, playlistID); err != nil {
			return err
		}
		return repo.NewGenreRepo(tx).Untag(ctx, playlistID, g)
	})
}

func (s *PlaylistService) ListPlaylistGenres(ctx context.Context, playlistID int) ([]domain.GenreType, error) {
	if _, err := s.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	return repo.NewGenreRepo(s.run.DB(ctx)).ListByPlaylist(ctx, playlistID)
}
