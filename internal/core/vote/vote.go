package vote

import (
	"postsapi/internal/core/post"
	"postsapi/internal/core/user"
)

// Vote is a "like" of a post by a user. A user votes on a post at most once.
type Vote struct {
	UserID uint      `gorm:"primaryKey;autoIncrement:false"`
	User   user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	PostID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	Post   post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}
