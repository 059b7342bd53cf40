package post

import (
	"context"
	"time"

	"postsapi/internal/core/post"
	userPort "postsapi/internal/ports/user"
)

// ListFilter selects a page of posts. OwnerID zero means every owner.
type ListFilter struct {
	Limit   int
	Skip    int
	Search  string
	OwnerID uint
}

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uint) (*post.Post, error)
	// FindWithLikes returns the post and its vote count, or
	// gorm.ErrRecordNotFound when no post has that id.
	FindWithLikes(ctx context.Context, id uint) (*post.Post, error)
	ListWithLikes(ctx context.Context, filter ListFilter) ([]*post.Post, error)
	Update(ctx context.Context, post *post.Post) (*post.Post, error)
	Delete(ctx context.Context, id uint) error
}

// PostInput is the caller-editable part of a post.
type PostInput struct {
	Title     string
	Content   string
	Published bool
}

type PostDTO struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Published bool              `json:"published"`
	CreatedAt time.Time         `json:"created_at"`
	OwnerID   uint              `json:"owner_id"`
	Owner     *userPort.UserDTO `json:"owner"`
}

type PostVoteDTO struct {
	Post  *PostDTO `json:"post"`
	Likes int64    `json:"likes"`
}

func ToDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		OwnerID:   p.OwnerID,
		Owner:     userPort.ToDTO(&p.Owner),
	}
}

func ToVoteDTO(p *post.Post) *PostVoteDTO {
	return &PostVoteDTO{Post: ToDTO(p), Likes: p.Likes}
}
