package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"music-stream-core/internal/domain"
	"music-stream-core/internal/service"
	"music-stream-core/internal/transport/http/ez"
)

// PlaylistHandler 歌单 CRUD + 收录歌曲 + 收藏 + 风格标签
type PlaylistHandler struct {
	playlists *service.PlaylistService
	log       *zap.Logger
}

func NewPlaylistHandler(playlists *service.PlaylistService, l *zap.Logger) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, log: l}
}

func (h *PlaylistHandler) Priority() int { return 30 }

type playlistCreateIn struct {
	Title    string  `json:"title" binding:"required"`
	Type     string  `json:"type"  binding:"required"`
	ImgSrc   *string `json:"imgSrc"`
	Verified *bool   `json:"verified"`
}

type playlistPatchIn struct {
	Title    *string `json:"title"`
	ImgSrc   *string `json:"imgSrc"`
	Verified *bool   `json:"verified"`
	Type     *string `json:"type"`
}

type playlistOut struct {
	Playlist *domain.Playlist   `json:"playlist"`
	Genres   []domain.GenreType `json:"genres"`
	Liked    bool               `json:"liked"`
}

type listOut[T any] struct {
	Items []T `json:"items"`
}

func (h *PlaylistHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)

	ez.RegisterAction(e, ez.Action[playlistCreateIn, *domain.Playlist]{
		Method: http.MethodPost,
		Path:   "/playlists",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *playlistCreateIn) (*domain.Playlist, error) {
			return h.playlists.CreatePlaylist(c.Request.Context(), ez.UserID(c), domain.NewPlaylist{
				Title:    in.Title,
				Type:     in.Type,
				ImgSrc:   in.ImgSrc,
				Verified: in.Verified,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, playlistOut]{
		Method: http.MethodGet,
		Path:   "/playlists/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (playlistOut, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return playlistOut{}, err
			}
			ctx := c.Request.Context()
			p, err := h.playlists.GetPlaylist(ctx, id)
			if err != nil {
				return playlistOut{}, err
			}
			genres, err := h.playlists.ListPlaylistGenres(ctx, id)
			if err != nil {
				return playlistOut{}, err
			}
			liked, err := h.playlists.IsLiked(ctx, ez.UserID(c), id)
			if err != nil {
				return playlistOut{}, err
			}
			return playlistOut{Playlist: p, Genres: genres, Liked: liked}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[playlistPatchIn, *domain.Playlist]{
		Method: http.MethodPut,
		Path:   "/playlists/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *playlistPatchIn) (*domain.Playlist, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			return h.playlists.UpdatePlaylist(c.Request.Context(), ez.UserID(c), id, domain.PlaylistPatch{
				Title:    domain.FromPtr(in.Title),
				ImgSrc:   domain.FromPtr(in.ImgSrc),
				Verified: domain.FromPtr(in.Verified),
				Type:     domain.FromPtr(in.Type),
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/playlists/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.playlists.DeletePlaylist(c.Request.Context(), ez.UserID(c), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	// 收录歌曲：仅创建者可改
	membership := func(add bool) func(c *gin.Context, _ *struct{}) (gin.H, error) {
		return func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			songID, err := ez.ParamInt(c, "songId")
			if err != nil {
				return nil, err
			}
			ctx, uid := c.Request.Context(), ez.UserID(c)
			if add {
				err = h.playlists.AddSongToOwnedPlaylist(ctx, uid, id, songID)
			} else {
				err = h.playlists.RemoveSongFromOwnedPlaylist(ctx, uid, id, songID)
			}
			if err != nil {
				return nil, err
			}
			return gin.H{"playlistId": id, "songId": songID}, nil
		}
	}
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/playlists/:id/songs/:songId",
		Binder: ez.BindNone, Auth: true, Handler: membership(true),
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/playlists/:id/songs/:songId",
		Binder: ez.BindNone, Auth: true, Handler: membership(false),
	})

	ez.RegisterAction(e, ez.Action[struct{}, listOut[domain.Song]]{
		Method: http.MethodGet,
		Path:   "/playlists/:id/songs",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (listOut[domain.Song], error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return listOut[domain.Song]{}, err
			}
			songs, err := h.playlists.ListPlaylistSongs(c.Request.Context(), id)
			return listOut[domain.Song]{Items: songs}, err
		},
	})

	like := func(on bool) func(c *gin.Context, _ *struct{}) (gin.H, error) {
		return func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			if on {
				err = h.playlists.LikePlaylist(c.Request.Context(), ez.UserID(c), id)
			} else {
				err = h.playlists.UnlikePlaylist(c.Request.Context(), ez.UserID(c), id)
			}
			if err != nil {
				return nil, err
			}
			return gin.H{"playlistId": id, "liked": on}, nil
		}
	}
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/playlists/:id/like",
		Binder: ez.BindNone, Auth: true, Handler: like(true),
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/playlists/:id/like",
		Binder: ez.BindNone, Auth: true, Handler: like(false),
	})

	ez.RegisterAction(e, ez.Action[struct{}, listOut[string]]{
		Method: http.MethodGet,
		Path:   "/playlists/:id/likers",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (listOut[string], error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return listOut[string]{}, err
			}
			ids, err := h.playlists.ListLikers(c.Request.Context(), id)
			return listOut[string]{Items: ids}, err
		},
	})

	genre := func(tag bool) func(c *gin.Context, _ *struct{}) (gin.H, error) {
		return func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			g := c.Param("genre")
			if tag {
				err = h.playlists.TagGenre(c.Request.Context(), ez.UserID(c), id, g)
			} else {
				err = h.playlists.UntagGenre(c.Request.Context(), ez.UserID(c), id, g)
			}
			if err != nil {
				return nil, err
			}
			return gin.H{"playlistId": id, "genre": g}, nil
		}
	}
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost, Path: "/playlists/:id/genres/:genre",
		Binder: ez.BindNone, Auth: true, Handler: genre(true),
	})
	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete, Path: "/playlists/:id/genres/:genre",
		Binder: ez.BindNone, Auth: true, Handler: genre(false),
	})

	ez.RegisterAction(e, ez.Action[struct{}, listOut[domain.Playlist]]{
		Method: http.MethodGet,
		Path:   "/me/liked",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (listOut[domain.Playlist], error) {
			ps, err := h.playlists.ListLikedPlaylists(c.Request.Context(), ez.UserID(c))
			return listOut[domain.Playlist]{Items: ps}, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, listOut[domain.Playlist]]{
		Method: http.MethodGet,
		Path:   "/me/playlists",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (listOut[domain.Playlist], error) {
			ps, err := h.playlists.ListCreatedPlaylists(c.Request.Context(), ez.UserID(c))
			return listOut[domain.Playlist]{Items: ps}, err
		},
	})
}
