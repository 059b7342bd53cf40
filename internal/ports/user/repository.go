package user

import (
	"context"
	"time"

	"postsapi/internal/core/user"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id uint) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// UserDTO is the public view of a user; it never carries the password hash.
type UserDTO struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDTO(u *user.User) *UserDTO {
	return &UserDTO{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
