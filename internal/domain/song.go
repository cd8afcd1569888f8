package domain

const (
	MaxSongName   = 250
	MaxSongSource = 150
)

type Song struct {
	ID               int    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	UserID           string `gorm:"column:user_id;size:36;not null;index" json:"userId"`
	OriginPlaylistID int    `gorm:"column:origin_playlist_id;not null;default:0" json:"originPlaylistId"` // 0 when uploaded directly
	Name             string `gorm:"column:name;size:250;not null" json:"name"`
	Source           string `gorm:"column:source;size:150;not null" json:"source"`

	Uploader *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Song) TableName() string { return "song" }

type NewSong struct {
	Name             string
	Source           string
	OriginPlaylistID int
}
