package postapp

import (
	"context"
	"errors"
	"fmt"

	"postsapi/internal/core/apperror"
	postEntity "postsapi/internal/core/post"
	postPort "postsapi/internal/ports/post"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type PostService struct {
	PostRepository postPort.PostRepository
	logger         *zap.Logger
}

func NewPostService(postRepo postPort.PostRepository, logger *zap.Logger) *PostService {
	return &PostService{
		PostRepository: postRepo,
		logger:         logger,
	}
}

// ListPosts returns a page of every user's posts with their like counts.
// An empty page is not an error.
func (s *PostService) ListPosts(ctx context.Context, filter postPort.ListFilter, currentUserID uint) ([]*postPort.PostVoteDTO, error) {
	filter.OwnerID = 0
	posts, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("listed posts",
		zap.Uint("userID", currentUserID), zap.Int("count", len(posts)), zap.String("search", filter.Search))
	return posts, nil
}

// ListMyPosts is ListPosts restricted to the caller's own posts. Unlike
// ListPosts it fails with NotFound when the page is empty.
func (s *PostService) ListMyPosts(ctx context.Context, filter postPort.ListFilter, currentUserID uint) ([]*postPort.PostVoteDTO, error) {
	filter.OwnerID = currentUserID
	posts, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperror.NotFoundf("You have no posts")
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*postPort.PostVoteDTO, error) {
	p, err := s.PostRepository.FindWithLikes(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return postPort.ToVoteDTO(p), nil
}

// CreatePost stores a new post owned by the caller. A new post has no votes,
// so the result carries no like count.
func (s *PostService) CreatePost(ctx context.Context, input postPort.PostInput, currentUserID uint) (*postPort.PostDTO, error) {
	p := &postEntity.Post{
		Title:     input.Title,
		Content:   input.Content,
		Published: input.Published,
		OwnerID:   currentUserID,
	}

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperror.NotFoundf("User with id: %d does not exist", currentUserID)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("post created", zap.Uint("postID", created.ID), zap.Uint("ownerID", created.OwnerID))
	return postPort.ToDTO(created), nil
}

func (s *PostService) DeletePost(ctx context.Context, id, currentUserID uint) error {
	if _, err := s.ownedPost(ctx, id, currentUserID, "delete"); err != nil {
		return err
	}

	if err := s.PostRepository.Delete(ctx, id); err != nil {
		return s.lookupError(id, err)
	}

	s.logger.Info("post deleted", zap.Uint("postID", id), zap.Uint("ownerID", currentUserID))
	return nil
}

// UpdatePost replaces title, content and published. Id, owner and
// creation time never change.
func (s *PostService) UpdatePost(ctx context.Context, id uint, input postPort.PostInput, currentUserID uint) (*postPort.PostDTO, error) {
	existing, err := s.ownedPost(ctx, id, currentUserID, "update")
	if err != nil {
		return nil, err
	}

	next := *existing
	next.Title = input.Title
	next.Content = input.Content
	next.Published = input.Published

	updated, err := s.PostRepository.Update(ctx, &next)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	s.logger.Info("post updated", zap.Uint("postID", id), zap.Uint("ownerID", currentUserID))
	return postPort.ToDTO(updated), nil
}

func (s *PostService) list(ctx context.Context, filter postPort.ListFilter) ([]*postPort.PostVoteDTO, error) {
	if filter.Limit < 0 || filter.Skip < 0 {
		return nil, apperror.New(apperror.Invalid, "limit and skip must be non-negative")
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}

	posts, err := s.PostRepository.ListWithLikes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	result := make([]*postPort.PostVoteDTO, 0, len(posts))
	for _, p := range posts {
		result = append(result, postPort.ToVoteDTO(p))
	}
	return result, nil
}

// ownedPost loads the post and checks that the caller owns it.
func (s *PostService) ownedPost(ctx context.Context, id, currentUserID uint, action string) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	if p.OwnerID != currentUserID {
		s.logger.Warn("rejected post mutation by non-owner",
			zap.String("action", action), zap.Uint("postID", id),
			zap.Uint("ownerID", p.OwnerID), zap.Uint("userID", currentUserID))
		return nil, apperror.Forbiddenf("You are not authorized to %s this post", action)
	}
	return p, nil
}

func (s *PostService) lookupError(id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PostNotFound(int64(id))
	}
	return fmt.Errorf("post %d: %w", id, err)
}

// PostNotFound is the error for an id that matches no post. Ids that can
// never exist, such as 0 or negative ones, get it too.
func PostNotFound(id int64) error {
	return apperror.NotFoundf("The post with the id: %d was not found", id)
}
