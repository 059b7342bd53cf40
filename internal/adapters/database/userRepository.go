package database

import (
	"context"

	"postsapi/internal/core/user"

	"gorm.io/gorm"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
