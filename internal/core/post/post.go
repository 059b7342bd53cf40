package post

import (
	"time"

	"postsapi/internal/core/user"
)

type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:255;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	Published bool      `gorm:"not null"`
	OwnerID   uint      `gorm:"not null;index"`
	Owner     user.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null"`

	// Likes is the number of votes on the post. It is only filled by the
	// aggregate queries and never written.
	Likes int64 `gorm:"->;-:migration"`
}
