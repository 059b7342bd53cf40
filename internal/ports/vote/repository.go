package vote

import (
	"context"

	"postsapi/internal/core/vote"
)

type VoteRepository interface {
	// Add inserts the vote. It returns gorm.ErrDuplicatedKey when the user
	// already voted on the post.
	Add(ctx context.Context, v *vote.Vote) error
	// Remove deletes the vote and reports whether one existed.
	Remove(ctx context.Context, userID, postID uint) (bool, error)
	Exists(ctx context.Context, userID, postID uint) (bool, error)
}

type Direction int

const (
	Unvote Direction = 0
	Upvote Direction = 1
)

type VoteResult struct {
	Message string `json:"message"`
}
