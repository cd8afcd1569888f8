package domain

import (
	"gorm.io/datatypes"
)

// Profile shares its primary key with the owning user.
type Profile struct {
	UserID     string          `gorm:"primaryKey;column:user_id;size:36" json:"userId"`
	Username   *string         `gorm:"column:username;size:255" json:"username"`
	Birthday   *datatypes.Date `gorm:"column:birthday" json:"birthday"`
	Country    *Country        `gorm:"column:country;size:32" json:"country"`
	ProfileImg *string         `gorm:"column:profile_img;size:255" json:"profileImg"`
	UserType   UserType        `gorm:"column:user_type;size:16;not null" json:"userType"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Profile) TableName() string { return "profile" }

// Premium is the single subscription tier of a user, keyed like Profile.
type Premium struct {
	UserID      string      `gorm:"primaryKey;column:user_id;size:36" json:"userId"`
	PremiumType PremiumType `gorm:"column:premium_type;size:16;not null" json:"premiumType"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Premium) TableName() string { return "premium" }

// ProfileView is a profile merged with the owner's premium record.
type ProfileView struct {
	Profile
	Premium *Premium `json:"premium"`
}

// ProfilePatch carries the optional arguments of a profile edit.
// For the nullable columns a present empty string clears the value.
type ProfilePatch struct {
	Username Optional[string]
	Country  Optional[string]
	Birthday Optional[string]
	Email    Optional[string]
}

func (p ProfilePatch) Empty() bool {
	return !p.Username.Set && !p.Country.Set && !p.Birthday.Set && !p.Email.Set
}
