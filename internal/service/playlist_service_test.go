package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-stream-core/internal/domain"
)

func TestCreatePlaylistIsLikedByCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")

	p := f.playlist(t, uid, "Road trip", domain.PlaylistUser)
	assert.NotZero(t, p.ID)
	assert.Equal(t, uid, p.UserID)

	liked, err := f.playlists.IsLiked(ctx, uid, p.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	created, err := f.playlists.ListCreatedPlaylists(ctx, uid)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "Road trip", created[0].Title)
}

func TestCreatePlaylistRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	long := strings.Repeat("x", domain.MaxImageRef+1)

	_, err := f.playlists.CreatePlaylist(ctx, uid, domain.NewPlaylist{Title: "  ", Type: "album"})
	assert.ErrorIs(t, err, domain.ErrMalformedTitle)
	_, err = f.playlists.CreatePlaylist(ctx, uid, domain.NewPlaylist{Title: "a", Type: "mixtape"})
	assert.ErrorIs(t, err, domain.ErrMalformedEnum)
	_, err = f.playlists.CreatePlaylist(ctx, uid, domain.NewPlaylist{Title: "a", Type: "album", ImgSrc: &long})
	assert.ErrorIs(t, err, domain.ErrMalformedImage)
	_, err = f.playlists.CreatePlaylist(ctx, "ghost", domain.NewPlaylist{Title: "a", Type: "album"})
	assert.ErrorIs(t, err, domain.ErrUserMissing)

	assert.Zero(t, f.count(t, &domain.Playlist{}, "1 = 1"))
}

func TestPlaylistMembershipIsASet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	p := f.playlist(t, uid, "Mix", domain.PlaylistUser)
	s := f.song(t, uid, "intro")

	require.NoError(t, f.playlists.AddSongToPlaylist(ctx, p.ID, s.ID))
	require.NoError(t, f.playlists.AddSongToPlaylist(ctx, p.ID, s.ID))
	assert.EqualValues(t, 1, f.count(t, &domain.PlaylistSong{}, "playlist_id = ? AND song_id = ?", p.ID, s.ID))

	songs, err := f.playlists.ListPlaylistSongs(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, s.ID, songs[0].ID)

	require.NoError(t, f.playlists.RemoveSongFromPlaylist(ctx, p.ID, s.ID))
	require.NoError(t, f.playlists.RemoveSongFromPlaylist(ctx, p.ID, s.ID))
	assert.Zero(t, f.count(t, &domain.PlaylistSong{}, "playlist_id = ?", p.ID))

	assert.ErrorIs(t, f.playlists.AddSongToPlaylist(ctx, p.ID+100, s.ID), domain.ErrPlaylistMissing)
	assert.ErrorIs(t, f.playlists.AddSongToPlaylist(ctx, p.ID, s.ID+100), domain.ErrSongMissing)
}

func TestLikeUnlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "ann@example.com")
	fan := f.register(t, "bob@example.com")
	p := f.playlist(t, owner, "Mix", domain.PlaylistUser)

	require.NoError(t, f.playlists.LikePlaylist(ctx, fan, p.ID))
	require.NoError(t, f.playlists.LikePlaylist(ctx, fan, p.ID))
	likers, err := f.playlists.ListLikers(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{owner, fan}, likers)

	liked, err := f.playlists.ListLikedPlaylists(ctx, fan)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, p.ID, liked[0].ID)

	require.NoError(t, f.playlists.UnlikePlaylist(ctx, fan, p.ID))
	require.NoError(t, f.playlists.UnlikePlaylist(ctx, fan, p.ID))
	ok, err := f.playlists.IsLiked(ctx, fan, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, f.playlists.LikePlaylist(ctx, fan, p.ID+100), domain.ErrPlaylistMissing)
	assert.ErrorIs(t, f.playlists.LikePlaylist(ctx, "ghost", p.ID), domain.ErrUserMissing)
}

func TestUpdatePlaylist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	other := f.register(t, "bob@example.com")
	p := f.playlist(t, uid, "Mix", domain.PlaylistAlbum)

	out, err := f.playlists.UpdatePlaylist(ctx, uid, p.ID, domain.PlaylistPatch{
		Title:    domain.Some("Mix 2"),
		ImgSrc:   domain.Some("covers/mix2.png"),
		Verified: domain.Some(true),
		Type:     domain.Some("album"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mix 2", out.Title)
	require.NotNil(t, out.ImgSrc)
	assert.Equal(t, "covers/mix2.png", *out.ImgSrc)
	require.NotNil(t, out.Verified)
	assert.True(t, *out.Verified)
	assert.Equal(t, domain.PlaylistAlbum, out.PlaylistType)

	_, err = f.playlists.UpdatePlaylist(ctx, uid, p.ID, domain.PlaylistPatch{Type: domain.Some("single")})
	assert.ErrorIs(t, err, domain.ErrImmutablePlaylistType)

	_, err = f.playlists.UpdatePlaylist(ctx, other, p.ID, domain.PlaylistPatch{Title: domain.Some("mine")})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = f.playlists.UpdatePlaylist(ctx, uid, p.ID+100, domain.PlaylistPatch{Title: domain.Some("x")})
	assert.ErrorIs(t, err, domain.ErrPlaylistMissing)

	got, err := f.playlists.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mix 2", got.Title)
	assert.Equal(t, uid, got.UserID)
}

func TestDeletePlaylistLeavesNoOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	fan := f.register(t, "bob@example.com")
	p := f.playlist(t, uid, "Mix", domain.PlaylistAlbum)
	s, err := f.songs.UploadSong(ctx, uid, domain.NewSong{Name: "track", Source: "s3://t", OriginPlaylistID: p.ID})
	require.NoError(t, err)
	require.NoError(t, f.playlists.AddSongToPlaylist(ctx, p.ID, s.ID))
	require.NoError(t, f.playlists.LikePlaylist(ctx, fan, p.ID))
	require.NoError(t, f.playlists.TagGenre(ctx, uid, p.ID, "jazz"))

	assert.ErrorIs(t, f.playlists.DeletePlaylist(ctx, fan, p.ID), domain.ErrNotOwner)
	require.NoError(t, f.playlists.DeletePlaylist(ctx, uid, p.ID))

	assert.Zero(t, f.count(t, &domain.Playlist{}, "id = ?", p.ID))
	assert.Zero(t, f.count(t, &domain.PlaylistSong{}, "playlist_id = ?", p.ID))
	assert.Zero(t, f.count(t, &domain.LikedPlaylist{}, "playlist_id = ?", p.ID))
	assert.Zero(t, f.count(t, &domain.Genre{}, "playlist_id = ?", p.ID))

	// the song survives and falls back to "uploaded directly"
	got, err := f.songs.GetSong(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, got.OriginPlaylistID)

	assert.ErrorIs(t, f.playlists.DeletePlaylist(ctx, uid, p.ID), domain.ErrPlaylistMissing)
}

func TestAdminPlaylistOps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	p := f.playlist(t, uid, "Mix", domain.PlaylistEP)

	require.NoError(t, f.playlists.SetVerified(ctx, p.ID, true))
	got, err := f.playlists.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Verified)
	assert.True(t, *got.Verified)

	require.NoError(t, f.playlists.ForceDeletePlaylist(ctx, p.ID))
	_, err = f.playlists.GetPlaylist(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPlaylistMissing)
	assert.ErrorIs(t, f.playlists.SetVerified(ctx, p.ID, false), domain.ErrPlaylistMissing)
	assert.ErrorIs(t, f.playlists.ForceDeletePlaylist(ctx, p.ID), domain.ErrPlaylistMissing)
}

func TestGenres(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	other := f.register(t, "bob@example.com")
	p := f.playlist(t, uid, "Mix", domain.PlaylistUser)

	require.NoError(t, f.playlists.TagGenre(ctx, uid, p.ID, "rock"))
	require.NoError(t, f.playlists.TagGenre(ctx, uid, p.ID, "rock"))
	require.NoError(t, f.playlists.TagGenre(ctx, uid, p.ID, "metal"))
	got, err := f.playlists.ListPlaylistGenres(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.GenreType{domain.GenreRock, domain.GenreMetal}, got)

	assert.ErrorIs(t, f.playlists.TagGenre(ctx, uid, p.ID, "polka"), domain.ErrMalformedEnum)
	assert.ErrorIs(t, f.playlists.TagGenre(ctx, other, p.ID, "pop"), domain.ErrNotOwner)

	require.NoError(t, f.playlists.UntagGenre(ctx, uid, p.ID, "rock"))
	got, err = f.playlists.ListPlaylistGenres(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.GenreType{domain.GenreMetal}, got)
}

func TestOwnedMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "ann@example.com")
	other := f.register(t, "bob@example.com")
	p := f.playlist(t, uid, "Mix", domain.PlaylistUser)
	s := f.song(t, other, "track")
	pair := "playlist_id = ? AND song_id = ?"

	assert.ErrorIs(t, f.playlists.AddSongToOwnedPlaylist(ctx, other, p.ID, s.ID), domain.ErrNotOwner)
	assert.Zero(t, f.count(t, &domain.PlaylistSong{}, pair, p.ID, s.ID))
	assert.ErrorIs(t, f.playlists.AddSongToOwnedPlaylist(ctx, uid, p.ID+1, s.ID), domain.ErrPlaylistMissing)

	require.NoError(t, f.playlists.AddSongToOwnedPlaylist(ctx, uid, p.ID, s.ID))
	assert.EqualValues(t, 1, f.count(t, &domain.PlaylistSong{}, pair, p.ID, s.ID))

	assert.ErrorIs(t, f.playlists.RemoveSongFromOwnedPlaylist(ctx, other, p.ID, s.ID), domain.ErrNotOwner)
	assert.EqualValues(t, 1, f.count(t, &domain.PlaylistSong{}, pair, p.ID, s.ID))

	require.NoError(t, f.playlists.RemoveSongFromOwnedPlaylist(ctx, uid, p.ID, s.ID))
	assert.Zero(t, f.count(t, &domain.PlaylistSong{}, pair, p.ID, s.ID))
}
