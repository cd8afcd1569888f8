package domain

// Genre tags a playlist. The table has no key of its own.
type Genre struct {
	PlaylistID *int      `gorm:"column:playlist_id;index" json:"playlistId"`
	GenreType  GenreType `gorm:"column:genre_type;size:32;not null" json:"genreType"`

	Playlist *Playlist `gorm:"foreignKey:PlaylistID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Genre) TableName() string { return "genre" }

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{}, &Profile{}, &Premium{}, &Playlist{}, &Song{},
		&PlaylistSong{}, &LikedPlaylist{}, &Genre{},
	}
}
