package database

import (
	"context"

	"postsapi/internal/core/vote"

	"gorm.io/gorm"
)

type VoteRepositoryDatabase struct {
	db *gorm.DB
}

func NewVoteRepositoryDatabase(db *gorm.DB) *VoteRepositoryDatabase {
	return &VoteRepositoryDatabase{db: db}
}

func (repo *VoteRepositoryDatabase) Add(ctx context.Context, v *vote.Vote) error {
	return repo.db.WithContext(ctx).Omit("User", "Post").Create(v).Error
}

func (repo *VoteRepositoryDatabase) Remove(ctx context.Context, userID, postID uint) (bool, error) {
	res := repo.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&vote.Vote{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *VoteRepositoryDatabase) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&vote.Vote{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
