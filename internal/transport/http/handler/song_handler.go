package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"music-stream-core/internal/domain"
	"music-stream-core/internal/service"
	"music-stream-core/internal/transport/http/ez"
)

type SongHandler struct {
	songs *service.SongService
	log   *zap.Logger
}

func NewSongHandler(songs *service.SongService, l *zap.Logger) *SongHandler {
	return &SongHandler{songs: songs, log: l}
}

func (h *SongHandler) Priority() int { return 40 }

type songIn struct {
	Name             string `json:"name"   binding:"required"`
	Source           string `json:"source" binding:"required"`
	OriginPlaylistID int    `json:"originPlaylistId"`
}

func (h *SongHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)

	ez.RegisterAction(e, ez.Action[songIn, *domain.Song]{
		Method: http.MethodPost,
		Path:   "/songs",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *songIn) (*domain.Song, error) {
			return h.songs.UploadSong(c.Request.Context(), ez.UserID(c), domain.NewSong{
				Name:             in.Name,
				Source:           in.Source,
				OriginPlaylistID: in.OriginPlaylistID,
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Song]{
		Method: http.MethodGet,
		Path:   "/songs/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Song, error) {
			id, err := ez.ParamInt(c, "id")
			if err != nil {
				return nil, err
			}
			return h.songs.GetSong(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, listOut[domain.Song]]{
		Method: http.MethodGet,
		Path:   "/me/songs",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (listOut[domain.Song], error) {
			songs, err := h.songs.ListUserSongs(c.Request.Context(), ez.UserID(c))
			return listOut[domain.Song]{Items: songs}, err
		},
	})
}
