package voteapp

import (
	"context"
	"errors"
	"fmt"

	"postsapi/internal/core/apperror"
	voteEntity "postsapi/internal/core/vote"
	postPort "postsapi/internal/ports/post"
	votePort "postsapi/internal/ports/vote"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VoteService struct {
	VoteRepository votePort.VoteRepository
	PostRepository postPort.PostRepository
	logger         *zap.Logger
}

func NewVoteService(voteRepo votePort.VoteRepository, postRepo postPort.PostRepository, logger *zap.Logger) *VoteService {
	return &VoteService{
		VoteRepository: voteRepo,
		PostRepository: postRepo,
		logger:         logger,
	}
}

// Vote adds (Upvote) or removes (Unvote) the caller's like on a post.
func (s *VoteService) Vote(ctx context.Context, postID uint, dir votePort.Direction, currentUserID uint) (*votePort.VoteResult, error) {
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, postMissing(postID)
		}
		return nil, fmt.Errorf("find post %d: %w", postID, err)
	}

	switch dir {
	case votePort.Upvote:
		return s.add(ctx, postID, currentUserID)
	case votePort.Unvote:
		return s.remove(ctx, postID, currentUserID)
	default:
		return nil, apperror.New(apperror.Invalid, "dir must be 0 or 1")
	}
}

func (s *VoteService) add(ctx context.Context, postID, userID uint) (*votePort.VoteResult, error) {
	voted, err := s.VoteRepository.Exists(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("check vote: %w", err)
	}
	if voted {
		return nil, alreadyVoted(userID, postID)
	}

	err = s.VoteRepository.Add(ctx, &voteEntity.Vote{UserID: userID, PostID: postID})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, alreadyVoted(userID, postID)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// the post went away after the lookup above
		return nil, postMissing(postID)
	case err != nil:
		return nil, fmt.Errorf("add vote: %w", err)
	}

	s.logger.Info("vote added", zap.Uint("postID", postID), zap.Uint("userID", userID))
	return &votePort.VoteResult{Message: "successfully added vote"}, nil
}

func (s *VoteService) remove(ctx context.Context, postID, userID uint) (*votePort.VoteResult, error) {
	removed, err := s.VoteRepository.Remove(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("remove vote: %w", err)
	}
	if !removed {
		return nil, apperror.NotFoundf("Vote does not exist")
	}

	s.logger.Info("vote removed", zap.Uint("postID", postID), zap.Uint("userID", userID))
	return &votePort.VoteResult{Message: "successfully deleted vote"}, nil
}

func postMissing(postID uint) error {
	return apperror.NotFoundf("Post with id: %d does not exist", postID)
}

func alreadyVoted(userID, postID uint) error {
	return apperror.Conflictf("user %d has already voted on post %d", userID, postID)
}
