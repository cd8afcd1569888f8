package domain

const (
	MaxPlaylistTitle = 255
	MaxImageRef      = 255
)

type Playlist struct {
	ID           int          `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Title        string       `gorm:"column:title;size:255;not null" json:"title"`
	UserID       string       `gorm:"column:user_id;size:36;not null;index" json:"userId"` // creator, not a liker
	PlaylistType PlaylistType `gorm:"column:playlist_type;size:16;not null" json:"playlistType"`
	ImgSrc       *string      `gorm:"column:img_src;size:255" json:"imgSrc"`
	Verified     *bool        `gorm:"column:verified" json:"verified"`

	Creator *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Playlist) TableName() string { return "playlist" }

// PlaylistSong is one membership row; the pair is the key.
type PlaylistSong struct {
	PlaylistID int `gorm:"primaryKey;column:playlist_id;autoIncrement:false"`
	SongID     int `gorm:"primaryKey;column:song_id;autoIncrement:false"`

	Playlist *Playlist `gorm:"foreignKey:PlaylistID;references:ID;constraint:OnDelete:CASCADE"`
	Song     *Song     `gorm:"foreignKey:SongID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PlaylistSong) TableName() string { return "playlist_song" }

// LikedPlaylist records that a user liked a playlist.
type LikedPlaylist struct {
	UserID     string `gorm:"primaryKey;column:user_id;size:36"`
	PlaylistID int    `gorm:"primaryKey;column:playlist_id;autoIncrement:false"`

	User     *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Playlist *Playlist `gorm:"foreignKey:PlaylistID;references:ID;constraint:OnDelete:CASCADE"`
}

func (LikedPlaylist) TableName() string { return "liked_playlist" }

type NewPlaylist struct {
	Title    string
	Type     string
	ImgSrc   *string
	Verified *bool
}

// PlaylistPatch edits a playlist in place. Type may be supplied but must
// match the stored classification.
type PlaylistPatch struct {
	Title    Optional[string]
	ImgSrc   Optional[string]
	Verified Optional[bool]
	Type     Optional[string]
}
