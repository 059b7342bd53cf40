package database

import (
	"context"
	"strings"

	"postsapi/internal/core/post"
	"postsapi/internal/core/vote"
	postPort "postsapi/internal/ports/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	db := repo.db.WithContext(ctx)
	if err := db.Omit("Owner").Create(p).Error; err != nil {
		return nil, err
	}
	// reload so the owner and the store-generated columns come back
	return repo.FindByID(ctx, p.ID)
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uint) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Preload("Owner").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindWithLikes(ctx context.Context, id uint) (*post.Post, error) {
	var posts []*post.Post
	err := repo.withLikes(ctx).
		Where("posts.id = ?", id).
		Limit(1).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return posts[0], nil
}

func (repo *PostRepositoryDatabase) ListWithLikes(ctx context.Context, f postPort.ListFilter) ([]*post.Post, error) {
	q := repo.withLikes(ctx)
	if f.Search != "" {
		q = q.Where("posts.title LIKE ? ESCAPE '!'", "%"+escapeLike(f.Search)+"%")
	}
	if f.OwnerID != 0 {
		q = q.Where("posts.owner_id = ?", f.OwnerID)
	}

	posts := []*post.Post{}
	if err := q.Order("posts.id").Limit(f.Limit).Offset(f.Skip).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update writes the editable columns of p. A map is used so that
// published=false is not skipped as a zero value.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	res := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":     p.Title,
			"content":   p.Content,
			"published": p.Published,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	// RowsAffected is not checked: MySQL reports 0 for an unchanged row.
	// A post deleted in between surfaces as not found from the reload.
	return repo.FindByID(ctx, p.ID)
}

// Delete removes the post and its votes in one transaction.
func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uint) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&vote.Vote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&post.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// withLikes selects posts left-joined with their vote count. Posts with no
// votes come back with Likes == 0.
func (repo *PostRepositoryDatabase) withLikes(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Preload("Owner").
		Select("posts.*, COUNT(votes.post_id) AS likes").
		Joins("LEFT JOIN votes ON votes.post_id = posts.id").
		Group("posts.id")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
