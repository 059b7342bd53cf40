package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"postsapi/internal/core/apperror"
	userEntity "postsapi/internal/core/user"
	userPort "postsapi/internal/ports/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		logger:         logger,
	}
}

// RegisterUser ثبت‌نام کاربر جدید
func (s *UserService) RegisterUser(ctx context.Context, email, password string) (*userPort.UserDTO, error) {
	email = NormalizeEmail(email)

	existing, err := s.UserRepository.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, emailTaken(email)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Email:    email,
		Password: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, emailTaken(email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("userID", u.ID))
	return userPort.ToDTO(u), nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, UserNotFound(int64(id))
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return userPort.ToDTO(u), nil
}

// NormalizeEmail lower-cases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func UserNotFound(id int64) error {
	return apperror.NotFoundf("User with id: %d does not exist", id)
}

func emailTaken(email string) error {
	return apperror.Conflictf("User with email: %s already exists", email)
}
