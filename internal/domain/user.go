package domain

import (
	"context"
	"time"
)

// User is the identity record. The password hash never leaves the store.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     *string   `gorm:"size:255" json:"username"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "user_info" }

// Role is derived from the profile user type.
func RoleOf(t UserType) string {
	if t == UserAdmin {
		return "admin"
	}
	return "user"
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Delete(ctx context.Context, id string) error
}
