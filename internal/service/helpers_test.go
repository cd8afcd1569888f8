package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"music-stream-core/internal/core/cache"
	"music-stream-core/internal/core/database"
	"music-stream-core/internal/domain"
)

// newRunner opens a private in-memory sqlite database with every table migrated.
func newRunner(t *testing.T) *database.Runner {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, domain.Models()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return database.NewRunner(db, 3, zap.NewNop())
}

type fixture struct {
	run       *database.Runner
	users     *UserService
	profiles  *ProfileService
	playlists *PlaylistService
	songs     *SongService
}

func newFixture(t *testing.T) *fixture { return newCachedFixture(t, nil) }

// newCachedFixture wires c into the services that read or evict the profile cache.
func newCachedFixture(t *testing.T, c *cache.Cache) *fixture {
	run := newRunner(t)
	return &fixture{
		run:       run,
		users:     NewUserService(run, c, nil),
		profiles:  NewProfileService(run, c, time.Minute, nil),
		playlists: NewPlaylistService(run, nil),
		songs:     NewSongService(run, nil),
	}
}

func (f *fixture) register(t *testing.T, email string) string {
	t.Helper()
	acc, err := f.users.Register(context.Background(), email, "secret-1", "")
	require.NoError(t, err)
	return acc.User.ID
}

func (f *fixture) playlist(t *testing.T, owner, title string, pt domain.PlaylistType) *domain.Playlist {
	t.Helper()
	p, err := f.playlists.CreatePlaylist(context.Background(), owner, domain.NewPlaylist{Title: title, Type: string(pt)})
	require.NoError(t, err)
	return p
}

func (f *fixture) song(t *testing.T, owner, name string) *domain.Song {
	t.Helper()
	s, err := f.songs.UploadSong(context.Background(), owner, domain.NewSong{Name: name, Source: "s3://bucket/" + name})
	require.NoError(t, err)
	return s
}

func (f *fixture) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.run.DB(context.Background()).Model(model).Where(where, args...).Count(&n).Error)
	return n
}
