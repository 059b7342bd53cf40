package database

import (
	"postsapi/internal/core/post"
	"postsapi/internal/core/user"
	"postsapi/internal/core/vote"

	"gorm.io/gorm"
)

// Migrate creates or updates the users, posts and votes tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&vote.Vote{},
	)
}
